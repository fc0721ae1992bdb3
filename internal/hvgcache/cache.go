// Package hvgcache reads and writes the level-0 adjacency cache file, a
// small binary format that lets a full-resolution graph build be skipped
// on repeat runs over the same polygon set.
package hvgcache

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"io"
	"math"
	"sort"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/poly"
)

var magic = [8]byte{'H', 'V', 'G', 'A', 'D', 'J', 0, 0}

const formatVersion uint32 = 1

// VertexRecord is one cached vertex: its coordinates and the id of the
// polygon it belongs to.
type VertexRecord struct {
	Point     geo.Point
	PolygonID uint32
}

// Adjacency is the on-disk representation of a level's adjacency: dense
// vertices plus the half of each symmetric edge where to > from.
type Adjacency struct {
	PolygonSetHash uint64
	Vertices       []VertexRecord
	Edges          [][2]uint32
}

// PolygonSetHash computes a content hash of every polygon's rings, used
// to reject a cache file that no longer matches the polygon set it was
// built from. Polygons are sorted by id first so hash order is
// independent of input order.
func PolygonSetHash(polygons []*poly.Polygon) uint64 {
	sorted := make([]*poly.Polygon, len(polygons))
	copy(sorted, polygons)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := fnv.New64a()
	for _, p := range sorted {
		h.Write([]byte(p.ID))
		writeRingHash(h, p.Outer())
		for _, hole := range p.Holes() {
			writeRingHash(h, hole)
		}
	}
	return h.Sum64()
}

func writeRingHash(h io.Writer, ring []geo.Point) {
	var buf [16]byte
	for _, pt := range ring {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(pt.Lon))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(pt.Lat))
		h.Write(buf[:])
	}
}

// Save writes adj to w in the .hvg_adj format.
func Save(w io.Writer, adj Adjacency) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	if err := writeU32(bw, formatVersion); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	if err := writeU64(bw, adj.PolygonSetHash); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	if err := writeU64(bw, uint64(len(adj.Vertices))); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	for _, v := range adj.Vertices {
		if err := writeF64(bw, v.Point.Lon); err != nil {
			return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
		}
		if err := writeF64(bw, v.Point.Lat); err != nil {
			return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
		}
		if err := writeU32(bw, v.PolygonID); err != nil {
			return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
		}
	}
	if err := writeU64(bw, uint64(len(adj.Edges))); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	for _, e := range adj.Edges {
		if err := writeU32(bw, e[0]); err != nil {
			return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
		}
		if err := writeU32(bw, e[1]); err != nil {
			return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return hvgerr.Wrap("hvgcache.Save", hvgerr.IO, err)
	}
	return nil
}

// Load reads an Adjacency from r, rejecting it with an Incompatible
// error if the magic, version, or expectedHash don't match.
func Load(r io.Reader, expectedHash uint64) (Adjacency, error) {
	br := bufio.NewReader(r)

	var gotMagic [8]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
	}
	if !bytes.Equal(gotMagic[:], magic[:]) {
		return Adjacency{}, hvgerr.New("hvgcache.Load", hvgerr.Incompatible)
	}

	version, err := readU32(br)
	if err != nil {
		return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
	}
	if version != formatVersion {
		return Adjacency{}, hvgerr.New("hvgcache.Load", hvgerr.Incompatible)
	}

	polygonHash, err := readU64(br)
	if err != nil {
		return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
	}
	if polygonHash != expectedHash {
		return Adjacency{}, hvgerr.New("hvgcache.Load", hvgerr.Incompatible)
	}

	vertexCount, err := readU64(br)
	if err != nil {
		return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
	}
	vertices := make([]VertexRecord, 0, vertexCount)
	for i := uint64(0); i < vertexCount; i++ {
		lon, err := readF64(br)
		if err != nil {
			return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
		}
		lat, err := readF64(br)
		if err != nil {
			return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
		}
		polygonID, err := readU32(br)
		if err != nil {
			return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
		}
		vertices = append(vertices, VertexRecord{Point: geo.NewPoint(lon, lat), PolygonID: polygonID})
	}

	edgeCount, err := readU64(br)
	if err != nil {
		return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
	}
	edges := make([][2]uint32, 0, edgeCount)
	for i := uint64(0); i < edgeCount; i++ {
		from, err := readU32(br)
		if err != nil {
			return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
		}
		to, err := readU32(br)
		if err != nil {
			return Adjacency{}, hvgerr.Wrap("hvgcache.Load", hvgerr.IO, err)
		}
		edges = append(edges, [2]uint32{from, to})
	}

	return Adjacency{PolygonSetHash: polygonHash, Vertices: vertices, Edges: edges}, nil
}

func writeU32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU64(w *bufio.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeF64(w *bufio.Writer, v float64) error {
	return writeU64(w, math.Float64bits(v))
}

func readU32(r *bufio.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readU64(r *bufio.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readF64(r *bufio.Reader) (float64, error) {
	v, err := readU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}
