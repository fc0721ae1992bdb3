package quadtree

import (
	"container/heap"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

// LeafNodeID identifies a leaf within a Tree's arena.
type LeafNodeID int32

// IntersectingLeafNodes returns the ids of every leaf whose rectangle the
// segment (split at the antimeridian first if necessary) could cross,
// found by a pruning DFS from the root.
func (t *Tree) IntersectingLeafNodes(segment geo.Segment) []LeafNodeID {
	var result []LeafNodeID
	for _, sub := range splitAtAntimeridian(segment) {
		edge := Edge{A: sub.Start(), B: sub.End()}
		t.collectIntersectingLeaves(t.root, edge, &result)
	}
	return result
}

func (t *Tree) collectIntersectingLeaves(idx int32, edge Edge, out *[]LeafNodeID) {
	n := &t.nodes[idx]
	if !segmentIntersectsBox(edge, n.bounds) {
		return
	}
	if n.leaf {
		*out = append(*out, LeafNodeID(idx))
		return
	}
	for _, c := range n.children {
		if c != noChild {
			t.collectIntersectingLeaves(c, edge, out)
		}
	}
}

// EdgesAt returns the edges stored directly at the given leaf (not
// including edges "stuck" at ancestor non-leaf nodes; callers that need a
// complete answer should also collect edges from ancestors on the path,
// which IntersectingLeafNodes's caller typically does not need because
// stuck edges are rare and also indexed wherever they do fit).
func (t *Tree) EdgesAt(id LeafNodeID) []Edge {
	return t.nodes[id].edges
}

// SegmentsInRange returns every edge (deduplicated) whose bounding box
// intersects rect, found via a DFS that filters at leaves.
func (t *Tree) SegmentsInRange(rect poly.Bounds) []Edge {
	var result []Edge
	seen := make(map[edgeKey]bool)
	t.collectInRange(t.root, rect, &result, seen)
	return result
}

type edgeKey struct {
	a, b geo.Point
}

func keyOf(e Edge) edgeKey {
	if (e.A.Lon < e.B.Lon) || (e.A.Lon == e.B.Lon && e.A.Lat < e.B.Lat) {
		return edgeKey{e.A, e.B}
	}
	return edgeKey{e.B, e.A}
}

func (t *Tree) collectInRange(idx int32, rect poly.Bounds, out *[]Edge, seen map[edgeKey]bool) {
	n := &t.nodes[idx]
	if !n.bounds.Intersects(rect) {
		return
	}
	for _, e := range n.edges {
		eb := poly.Bounds{
			MinLon: min2(e.A.Lon, e.B.Lon), MaxLon: max2(e.A.Lon, e.B.Lon),
			MinLat: min2(e.A.Lat, e.B.Lat), MaxLat: max2(e.A.Lat, e.B.Lat),
		}
		if !eb.Intersects(rect) {
			continue
		}
		k := keyOf(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		*out = append(*out, e)
	}
	if !n.leaf {
		for _, c := range n.children {
			if c != noChild {
				t.collectInRange(c, rect, out, seen)
			}
		}
	}
}

// VerticesInRange returns every distinct vertex (by quantized identity)
// of an edge stored in the tree whose coordinates lie in rect. Used by
// corridor construction.
func (t *Tree) VerticesInRange(rect poly.Bounds) []geo.Point {
	seen := make(map[[2]int64]bool)
	var result []geo.Point
	addIfInRange := func(p geo.Point) {
		if !rect.Contains(p.Lon, p.Lat) {
			return
		}
		k := p.QuantizedKey()
		if seen[k] {
			return
		}
		seen[k] = true
		result = append(result, p)
	}
	for _, e := range t.SegmentsInRange(rect) {
		addIfInRange(e.A)
		addIfInRange(e.B)
	}
	return result
}

// FindSegment looks up the edge connecting p1 and p2 (in either
// direction), searching only the leaves the synthetic p1->p2 segment
// could intersect.
func (t *Tree) FindSegment(p1, p2 geo.Point) (Edge, bool) {
	synthetic := geo.NewSegment(p1, p2)
	for _, leafID := range t.IntersectingLeafNodes(synthetic) {
		for _, e := range t.EdgesAt(leafID) {
			if (e.A.Equal(p1) && e.B.Equal(p2)) || (e.A.Equal(p2) && e.B.Equal(p1)) {
				return e, true
			}
		}
	}
	return Edge{}, false
}

// --- nearest-edge / nearest-vertex best-first search ---

type pqItem struct {
	lowerBound float64
	node       int32
	isLeaf     bool
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].lowerBound < pq[j].lowerBound }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// lowerBoundDistance estimates, in meters, the minimum possible distance
// from point to any geometry inside box: 0 if point is inside box,
// otherwise the geodesic distance to the nearest point on box's boundary
// approximated via clamped coordinates (adequate as an admissible lower
// bound for best-first pruning).
func lowerBoundDistance(point geo.Point, box poly.Bounds) float64 {
	if box.Contains(point.Lon, point.Lat) {
		return 0
	}
	clampedLon := point.Lon
	if clampedLon < box.MinLon {
		clampedLon = box.MinLon
	} else if clampedLon > box.MaxLon {
		clampedLon = box.MaxLon
	}
	clampedLat := point.Lat
	if clampedLat < box.MinLat {
		clampedLat = box.MinLat
	} else if clampedLat > box.MaxLat {
		clampedLat = box.MaxLat
	}
	nearest := geo.NewPoint(clampedLon, clampedLat)
	return point.Distance(nearest)
}

// NearestEdge returns the edge with the minimum true geodesic distance to
// point, found via best-first search pruned by lowerBoundDistance.
// Out-of-map points still return a best-effort result rather than being
// rejected.
func (t *Tree) NearestEdge(point geo.Point) (Edge, float64, bool) {
	pq := &priorityQueue{{lowerBound: lowerBoundDistance(point, t.nodes[t.root].bounds), node: t.root, isLeaf: t.nodes[t.root].leaf}}
	heap.Init(pq)

	best := float64(1e18)
	var bestEdge Edge
	found := false

	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqItem)
		if top.lowerBound >= best {
			break
		}
		n := &t.nodes[top.node]
		if n.leaf {
			for _, e := range n.edges {
				d := e.Segment().PerpendicularDistance(point)
				if d < best {
					best = d
					bestEdge = e
					found = true
				}
			}
			continue
		}
		for _, c := range n.children {
			if c == noChild {
				continue
			}
			lb := lowerBoundDistance(point, t.nodes[c].bounds)
			if lb < best {
				heap.Push(pq, pqItem{lowerBound: lb, node: c, isLeaf: t.nodes[c].leaf})
			}
		}
	}
	return bestEdge, best, found
}

// NearestVertex returns the edge endpoint (deduplicated by quantized
// identity) with the minimum geodesic distance to point.
func (t *Tree) NearestVertex(point geo.Point) (geo.Point, float64, bool) {
	pq := &priorityQueue{{lowerBound: lowerBoundDistance(point, t.nodes[t.root].bounds), node: t.root, isLeaf: t.nodes[t.root].leaf}}
	heap.Init(pq)

	best := float64(1e18)
	var bestVertex geo.Point
	found := false

	for pq.Len() > 0 {
		top := heap.Pop(pq).(pqItem)
		if top.lowerBound >= best {
			break
		}
		n := &t.nodes[top.node]
		if n.leaf {
			for _, e := range n.edges {
				if d := point.Distance(e.A); d < best {
					best, bestVertex, found = d, e.A, true
				}
				if d := point.Distance(e.B); d < best {
					best, bestVertex, found = d, e.B, true
				}
			}
			continue
		}
		for _, c := range n.children {
			if c == noChild {
				continue
			}
			lb := lowerBoundDistance(point, t.nodes[c].bounds)
			if lb < best {
				heap.Push(pq, pqItem{lowerBound: lb, node: c, isLeaf: t.nodes[c].leaf})
			}
		}
	}
	return bestVertex, best, found
}
