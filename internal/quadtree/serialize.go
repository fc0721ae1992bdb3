package quadtree

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/poly"
)

// Serialize writes the tree to w in preorder: for every node, a u8
// present-flag (always 1 for a node actually visited), the node's
// rectangle as two f64 corners, a u64 edge count followed by that many
// edges (4 f64s each: A.Lon, A.Lat, B.Lon, B.Lat), a u8 leaf-flag, and
// then the four child slots in NW/NE/SW/SE order, each preceded by its
// own u8 present-flag (0 meaning absent, no further bytes for that
// slot).
func (t *Tree) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeNode(bw, t, t.root); err != nil {
		return hvgerr.Wrap("quadtree.Serialize", hvgerr.IO, err)
	}
	if err := bw.Flush(); err != nil {
		return hvgerr.Wrap("quadtree.Serialize", hvgerr.IO, err)
	}
	return nil
}

func writeNode(w *bufio.Writer, t *Tree, idx int32) error {
	if err := writeU8(w, 1); err != nil {
		return err
	}
	n := &t.nodes[idx]
	for _, v := range []float64{n.bounds.MinLon, n.bounds.MinLat, n.bounds.MaxLon, n.bounds.MaxLat} {
		if err := writeF64(w, v); err != nil {
			return err
		}
	}
	if err := writeU64(w, uint64(len(n.edges))); err != nil {
		return err
	}
	for _, e := range n.edges {
		for _, v := range []float64{e.A.Lon, e.A.Lat, e.B.Lon, e.B.Lat} {
			if err := writeF64(w, v); err != nil {
				return err
			}
		}
	}
	leafByte := uint8(0)
	if n.leaf {
		leafByte = 1
	}
	if err := writeU8(w, leafByte); err != nil {
		return err
	}
	for _, c := range n.children {
		if c == noChild {
			if err := writeU8(w, 0); err != nil {
				return err
			}
			continue
		}
		if err := writeNode(w, t, c); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize builds a new Tree from the preorder stream read from r,
// produced by Serialize; any read error surfaces as hvgerr.IO.
func Deserialize(r io.Reader) (*Tree, error) {
	br := bufio.NewReader(r)
	t := &Tree{}
	idx, err := readNode(br, t)
	if err != nil {
		return nil, hvgerr.Wrap("quadtree.Deserialize", hvgerr.IO, err)
	}
	t.root = idx
	return t, nil
}

func readNode(r *bufio.Reader, t *Tree) (int32, error) {
	present, err := readU8(r)
	if err != nil {
		return noChild, err
	}
	if present == 0 {
		return noChild, nil
	}

	corners := make([]float64, 4)
	for i := range corners {
		v, err := readF64(r)
		if err != nil {
			return noChild, err
		}
		corners[i] = v
	}
	b := poly.Bounds{MinLon: corners[0], MinLat: corners[1], MaxLon: corners[2], MaxLat: corners[3]}

	count, err := readU64(r)
	if err != nil {
		return noChild, err
	}
	edges := make([]Edge, 0, count)
	for i := uint64(0); i < count; i++ {
		vals := make([]float64, 4)
		for j := range vals {
			v, err := readF64(r)
			if err != nil {
				return noChild, err
			}
			vals[j] = v
		}
		edges = append(edges, Edge{A: geo.NewPoint(vals[0], vals[1]), B: geo.NewPoint(vals[2], vals[3])})
	}

	leafByte, err := readU8(r)
	if err != nil {
		return noChild, err
	}

	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{bounds: b, edges: edges, leaf: leafByte == 1, children: [4]int32{noChild, noChild, noChild, noChild}})

	var children [4]int32
	for i := 0; i < 4; i++ {
		c, err := readNode(r, t)
		if err != nil {
			return noChild, err
		}
		children[i] = c
	}
	t.nodes[idx].children = children
	return idx, nil
}

func writeU8(w *bufio.Writer, v uint8) error  { return w.WriteByte(v) }
func writeU64(w *bufio.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
func writeF64(w *bufio.Writer, v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func readU8(r *bufio.Reader) (uint8, error) { return r.ReadByte() }
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
