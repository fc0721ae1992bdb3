package hvgraph

import (
	"io"
	"os"

	"github.com/shipnetsim/hvg/internal/hvgcache"
	"github.com/shipnetsim/hvg/internal/hvgerr"
)

// LoadAdjacencyCache reads path and, if it matches the current level-0
// polygon set, replaces level 0's adjacency with the cached copy instead
// of rebuilding it from scratch; level 0's vertex list is kept as built.
// A hash mismatch or
// read error leaves level 0 untouched and returns the error.
func (h *Hierarchy) LoadAdjacencyCache(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return hvgerr.Wrap("hvgraph.Hierarchy.LoadAdjacencyCache", hvgerr.IO, err)
	}
	defer f.Close()

	level0 := h.Levels[0]
	expectedHash := hvgcache.PolygonSetHash(level0.Polygons)

	adj, err := hvgcache.Load(f, expectedHash)
	if err != nil {
		return err
	}

	applyCachedAdjacency(level0, adj)
	return nil
}

// SaveAdjacencyCache writes level 0's current vertex list and adjacency
// to path.
func (h *Hierarchy) SaveAdjacencyCache(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return hvgerr.Wrap("hvgraph.Hierarchy.SaveAdjacencyCache", hvgerr.IO, err)
	}
	defer f.Close()

	return h.saveAdjacencyTo(f)
}

func (h *Hierarchy) saveAdjacencyTo(w io.Writer) error {
	level0 := h.Levels[0]
	adj := hvgcache.Adjacency{
		PolygonSetHash: hvgcache.PolygonSetHash(level0.Polygons),
	}

	polygonIDs := make(map[string]uint32)
	nextID := uint32(0)
	idFor := func(name string) uint32 {
		if id, ok := polygonIDs[name]; ok {
			return id
		}
		polygonIDs[name] = nextID
		nextID++
		return nextID - 1
	}

	for i, v := range level0.Vertices {
		adj.Vertices = append(adj.Vertices, hvgcache.VertexRecord{
			Point:     v,
			PolygonID: idFor(level0.PolygonOfVertex[i]),
		})
	}
	for i, neighbors := range level0.Adjacency {
		for _, j := range neighbors {
			if j > i {
				adj.Edges = append(adj.Edges, [2]uint32{uint32(i), uint32(j)})
			}
		}
	}

	return hvgcache.Save(w, adj)
}

func applyCachedAdjacency(level *GraphLevel, adj hvgcache.Adjacency) {
	level.Adjacency = make([][]int, len(adj.Vertices))
	for _, e := range adj.Edges {
		from, to := int(e[0]), int(e[1])
		level.Adjacency[from] = append(level.Adjacency[from], to)
		level.Adjacency[to] = append(level.Adjacency[to], from)
	}
}
