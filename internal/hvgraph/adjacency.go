package hvgraph

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

// BuildAdjacency computes the symmetric visible-neighbor lists for every
// vertex: ring-adjacent vertices are always neighbors; any other pair is
// a neighbor iff their geodesic midpoint lies in water and the level's
// VisibilityOracle judges them mutually visible. Vertices are processed
// in parallel; the per-level lock is only held while committing a
// vertex's finished neighbor list.
func (l *GraphLevel) BuildAdjacency(ctx context.Context) error {
	ringNeighbors := make(map[int]map[int]bool, len(l.Vertices))
	for _, e := range l.ringEdges {
		addSymmetric(ringNeighbors, e[0], e[1])
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range l.Vertices {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			neighbors := l.visibleNeighborsOf(gctx, i, ringNeighbors[i])
			l.commitNeighbors(i, neighbors)
			return nil
		})
	}
	return g.Wait()
}

func (l *GraphLevel) visibleNeighborsOf(ctx context.Context, i int, ringSet map[int]bool) []int {
	set := make(map[int]bool, len(ringSet))
	for j := range ringSet {
		set[j] = true
	}

	vi := l.Vertices[i]
	for j := range l.Vertices {
		if j == i || set[j] {
			continue
		}
		vj := l.Vertices[j]
		mid := geo.NewSegment(vi, vj).Midpoint()
		if !l.midpointInWater(mid) {
			continue
		}
		if l.Oracle.IsVisible(ctx, vi, vj) {
			set[j] = true
		}
	}

	result := make([]int, 0, len(set))
	for j := range set {
		result = append(result, j)
	}
	sort.Ints(result)
	return result
}

func (l *GraphLevel) midpointInWater(p geo.Point) bool {
	for _, poly := range l.Polygons {
		if poly.IsPointInside(p) {
			return true
		}
	}
	return false
}

// commitNeighbors merges neighbors into vertex i's adjacency list (rather
// than overwriting it) since another vertex's goroutine may already have
// added a reciprocal entry to i before i's own computation finishes, and
// reciprocally adds i to each neighbor's list.
func (l *GraphLevel) commitNeighbors(i int, neighbors []int) {
	l.adjMu.Lock()
	for _, j := range neighbors {
		if !containsInt(l.Adjacency[i], j) {
			l.Adjacency[i] = append(l.Adjacency[i], j)
		}
	}
	l.adjMu.Unlock()

	for _, j := range neighbors {
		l.adjMu.Lock()
		if !containsInt(l.Adjacency[j], i) {
			l.Adjacency[j] = append(l.Adjacency[j], i)
		}
		l.adjMu.Unlock()
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func addSymmetric(m map[int]map[int]bool, a, b int) {
	if m[a] == nil {
		m[a] = make(map[int]bool)
	}
	if m[b] == nil {
		m[b] = make(map[int]bool)
	}
	m[a][b] = true
	m[b][a] = true
}

// NeighborsOf returns a snapshot of vertex i's adjacency list.
func (l *GraphLevel) NeighborsOf(i int) []int {
	l.adjMu.RLock()
	defer l.adjMu.RUnlock()
	out := make([]int, len(l.Adjacency[i]))
	copy(out, l.Adjacency[i])
	return out
}

// VertexIndexOf returns the dense id for p if p is a known vertex of
// this level.
func (l *GraphLevel) VertexIndexOf(p geo.Point) (int, bool) {
	id, ok := l.vertexIndex[p.QuantizedKey()]
	return id, ok
}

// PolygonByID returns the polygon with the given id, if indexed at this
// level.
func (l *GraphLevel) PolygonByID(id string) (*poly.Polygon, bool) {
	for _, p := range l.Polygons {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
