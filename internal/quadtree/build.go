package quadtree

import (
	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/poly"
)

// BuildFromPolygons computes the envelope of every ring of every polygon
// as the root rectangle, then inserts one Edge per ring segment.
func BuildFromPolygons(polygons []*poly.Polygon, maxPerNode int) *Tree {
	envelope := poly.Bounds{}
	for _, p := range polygons {
		envelope = envelope.Union(p.BoundingBox())
		for _, hole := range p.Holes() {
			hb := ringBounds(hole)
			envelope = envelope.Union(hb)
		}
	}
	t := New(envelope, maxPerNode)
	for _, p := range polygons {
		insertRing(t, p.Outer(), p.ID)
		for _, hole := range p.Holes() {
			insertRing(t, hole, p.ID)
		}
	}
	return t
}

func ringBounds(ring []geo.Point) poly.Bounds {
	b := poly.Bounds{MinLon: 1e18, MaxLon: -1e18, MinLat: 1e18, MaxLat: -1e18}
	for _, pt := range ring {
		if pt.Lon < b.MinLon {
			b.MinLon = pt.Lon
		}
		if pt.Lon > b.MaxLon {
			b.MaxLon = pt.Lon
		}
		if pt.Lat < b.MinLat {
			b.MinLat = pt.Lat
		}
		if pt.Lat > b.MaxLat {
			b.MaxLat = pt.Lat
		}
	}
	return b
}

func insertRing(t *Tree, ring []geo.Point, polygonID string) {
	for i := 0; i+1 < len(ring); i++ {
		_ = t.Insert(Edge{A: ring[i], B: ring[i+1], PolygonID: polygonID})
	}
}

// Insert adds edge to the tree, splitting it at the antimeridian first if
// necessary and recursively subdividing any node that exceeds the
// subdivision threshold.
func (t *Tree) Insert(edge Edge) error {
	if edge.A == (geo.Point{}) && edge.B == (geo.Point{}) {
		return hvgerr.New("quadtree.Insert", hvgerr.InvalidArgument)
	}
	for _, sub := range splitAtAntimeridian(edge.Segment()) {
		subEdge := Edge{A: sub.Start(), B: sub.End(), PolygonID: edge.PolygonID}
		t.insertInto(t.root, subEdge)
	}
	return nil
}

func (t *Tree) insertInto(idx int32, edge Edge) {
	n := &t.nodes[idx]

	if !n.leaf {
		delivered := t.deliverToChildren(idx, edge)
		if !delivered {
			n.edges = append(n.edges, edge)
			t.stuckAtParent++
		}
		return
	}

	n.edges = append(n.edges, edge)
	if len(n.edges) > t.maxPerNode {
		t.subdivide(idx)
	}
}

// deliverToChildren sends edge to every child whose rectangle it
// intersects, via bounding-box + edge-crossing test. Returns false if no
// child's rectangle intersects (caller retains the edge at the parent).
func (t *Tree) deliverToChildren(idx int32, edge Edge) bool {
	n := &t.nodes[idx]
	delivered := false
	for _, c := range n.children {
		if c == noChild {
			continue
		}
		if segmentIntersectsBox(edge, t.nodes[c].bounds) {
			t.insertInto(c, edge)
			delivered = true
		}
	}
	return delivered
}

func (t *Tree) subdivide(idx int32) {
	n := t.nodes[idx]
	if !n.leaf {
		return
	}
	b := n.bounds
	midLon := (b.MinLon + b.MaxLon) / 2
	midLat := (b.MinLat + b.MaxLat) / 2

	// NW=0, NE=1, SW=2, SE=3
	quadrants := [4]poly.Bounds{
		{MinLon: b.MinLon, MaxLon: midLon, MinLat: midLat, MaxLat: b.MaxLat}, // NW
		{MinLon: midLon, MaxLon: b.MaxLon, MinLat: midLat, MaxLat: b.MaxLat}, // NE
		{MinLon: b.MinLon, MaxLon: midLon, MinLat: b.MinLat, MaxLat: midLat}, // SW
		{MinLon: midLon, MaxLon: b.MaxLon, MinLat: b.MinLat, MaxLat: midLat}, // SE
	}

	var children [4]int32
	for i, qb := range quadrants {
		children[i] = t.newNode(qb)
	}

	existingEdges := n.edges

	// Rewrite the node as a non-leaf before redistributing, since
	// insertInto/deliverToChildren dispatch on n.leaf.
	t.nodes[idx].leaf = false
	t.nodes[idx].children = children
	t.nodes[idx].edges = nil

	var stuck []Edge
	for _, e := range existingEdges {
		if !t.deliverToChildren(idx, e) {
			stuck = append(stuck, e)
		}
	}
	t.nodes[idx].edges = stuck
	t.stuckAtParent += len(stuck)
}

// segmentIntersectsBox is a bounding-box + edge-crossing test: true if
// edge's own bounding box overlaps box, and (for edges that clip a
// corner without either endpoint inside) the segment actually crosses
// one of the box's four sides.
func segmentIntersectsBox(edge Edge, box poly.Bounds) bool {
	eb := poly.Bounds{
		MinLon: min2(edge.A.Lon, edge.B.Lon), MaxLon: max2(edge.A.Lon, edge.B.Lon),
		MinLat: min2(edge.A.Lat, edge.B.Lat), MaxLat: max2(edge.A.Lat, edge.B.Lat),
	}
	if !eb.Intersects(box) {
		return false
	}
	if box.Contains(edge.A.Lon, edge.A.Lat) || box.Contains(edge.B.Lon, edge.B.Lat) {
		return true
	}

	seg := edge.Segment()
	corners := [4]geo.Point{
		geo.NewPoint(box.MinLon, box.MinLat),
		geo.NewPoint(box.MaxLon, box.MinLat),
		geo.NewPoint(box.MaxLon, box.MaxLat),
		geo.NewPoint(box.MinLon, box.MaxLat),
	}
	for i := 0; i < 4; i++ {
		side := geo.NewSegment(corners[i], corners[(i+1)%4])
		if seg.Intersects(side, false) {
			return true
		}
	}
	return false
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Delete removes edge from the tree if present, returning false if it was
// not found. Mirrors Insert's antimeridian split so a previously-split
// edge is deleted consistently.
func (t *Tree) Delete(edge Edge) bool {
	found := false
	for _, sub := range splitAtAntimeridian(edge.Segment()) {
		subEdge := Edge{A: sub.Start(), B: sub.End(), PolygonID: edge.PolygonID}
		if t.deleteFrom(t.root, subEdge) {
			found = true
		}
	}
	return found
}

func (t *Tree) deleteFrom(idx int32, edge Edge) bool {
	n := &t.nodes[idx]
	removed := false
	for i := 0; i < len(n.edges); i++ {
		if edgeEqual(n.edges[i], edge) {
			n.edges = append(n.edges[:i], n.edges[i+1:]...)
			removed = true
			i--
		}
	}
	if !n.leaf {
		for _, c := range n.children {
			if c == noChild {
				continue
			}
			if t.deleteFrom(c, edge) {
				removed = true
			}
		}
	}
	return removed
}

func edgeEqual(a, b Edge) bool {
	return (a.A.Equal(b.A) && a.B.Equal(b.B)) || (a.A.Equal(b.B) && a.B.Equal(b.A))
}
