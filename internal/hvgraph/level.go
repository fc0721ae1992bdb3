// Package hvgraph builds the four-level simplified visibility graph
// hierarchy the planner searches: level 0 holds the original polygons,
// levels 1-3 hold Douglas-Peucker-simplified versions at increasing
// tolerance.
package hvgraph

import (
	"sync"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
	"github.com/shipnetsim/hvg/internal/quadtree"
	"github.com/shipnetsim/hvg/internal/spatialindex"
	"github.com/shipnetsim/hvg/internal/visibility"
)

// LevelTolerances are the Douglas-Peucker simplification tolerances, in
// meters, for levels 0-3. Level 0 is exact (tolerance 0 means "no
// simplification").
var LevelTolerances = [4]float64{0, 2000, 10000, 50000}

// GraphLevel is one level of the hierarchy.
type GraphLevel struct {
	Index           int
	ToleranceMeters float64
	Polygons        []*poly.Polygon
	Tree            *quadtree.Tree
	Oracle          *visibility.Oracle

	// Coarse is a coarse R-tree over each polygon's bounding box, queried
	// by PolygonsNear to narrow candidate polygons before an
	// isPointInside test (snap-to-water), mirroring the
	// teacher's ChartIndex two-stage filter.
	Coarse      *spatialindex.Index
	polygonByID map[string]*poly.Polygon

	Vertices        []geo.Point
	vertexIndex     map[[2]int64]int
	PolygonOfVertex []string
	ringEdges       [][2]int

	adjMu     sync.RWMutex
	Adjacency [][]int
}

// PolygonsNear returns the polygons at this level whose bounding box
// contains point, via Coarse — a cheap pre-filter before an expensive
// isPointInside/isValidWaterSegment test. A point inside some polygon is
// always inside that polygon's bounding box, so this never misses a true
// containment; it may return a few extra candidates whose precise ring
// doesn't contain the point.
func (l *GraphLevel) PolygonsNear(point geo.Point) []*poly.Polygon {
	const epsilon = 1e-9
	rect := poly.Bounds{
		MinLon: point.Lon - epsilon, MaxLon: point.Lon + epsilon,
		MinLat: point.Lat - epsilon, MaxLat: point.Lat + epsilon,
	}
	entries := l.Coarse.Query(rect)
	result := make([]*poly.Polygon, 0, len(entries))
	for _, e := range entries {
		if p, ok := l.polygonByID[e.PolygonID]; ok {
			result = append(result, p)
		}
	}
	return result
}

// BuildGraphLevel simplifies polygons to toleranceMeters (0 keeps them
// exact), indexes the simplified edges into a Quadtree, and assigns
// dense vertex ids. Adjacency is NOT built here; call BuildAdjacency
// explicitly since level 0's adjacency may be deferred to a loaded
// cache.
func BuildGraphLevel(index int, toleranceMeters float64, polygons []*poly.Polygon) (*GraphLevel, error) {
	simplified, err := simplifyPolygons(polygons, toleranceMeters)
	if err != nil {
		return nil, err
	}

	level := &GraphLevel{
		Index:           index,
		ToleranceMeters: toleranceMeters,
		Polygons:        simplified,
		vertexIndex:     make(map[[2]int64]int),
	}

	for _, p := range simplified {
		level.addRing(p.Outer(), p.ID)
		for _, hole := range p.Holes() {
			level.addRing(hole, p.ID)
		}
	}

	level.Tree = quadtree.BuildFromPolygons(simplified, quadtree.DefaultMaxSegmentsPerNode)
	level.Oracle = visibility.New(level.Tree)
	level.Adjacency = make([][]int, len(level.Vertices))

	level.Coarse = spatialindex.Build(simplified)
	level.polygonByID = make(map[string]*poly.Polygon, len(simplified))
	for _, p := range simplified {
		level.polygonByID[p.ID] = p
	}

	return level, nil
}

func simplifyPolygons(polygons []*poly.Polygon, toleranceMeters float64) ([]*poly.Polygon, error) {
	if toleranceMeters <= 0 {
		return polygons, nil
	}

	var result []*poly.Polygon
	for _, p := range polygons {
		outer := douglasPeucker(p.Outer(), toleranceMeters)
		if len(outer) < 3 {
			continue
		}
		var holes [][]geo.Point
		for _, hole := range p.Holes() {
			simplifiedHole := douglasPeucker(hole, toleranceMeters)
			if len(simplifiedHole) < 3 {
				continue
			}
			holes = append(holes, simplifiedHole)
		}
		simplified, err := poly.NewPolygon(p.ID, outer, holes)
		if err != nil {
			continue
		}
		result = append(result, simplified)
	}
	return result, nil
}

func (l *GraphLevel) addRing(ring []geo.Point, polygonID string) {
	n := len(ring)
	ids := make([]int, n)
	for i, pt := range ring {
		ids[i] = l.vertexID(pt, polygonID)
	}
	for i := 0; i+1 < n; i++ {
		l.linkRingNeighbors(ids[i], ids[i+1])
	}
}

func (l *GraphLevel) vertexID(p geo.Point, polygonID string) int {
	key := p.QuantizedKey()
	if id, ok := l.vertexIndex[key]; ok {
		return id
	}
	id := len(l.Vertices)
	l.vertexIndex[key] = id
	l.Vertices = append(l.Vertices, p)
	l.PolygonOfVertex = append(l.PolygonOfVertex, polygonID)
	return id
}

// linkRingNeighbors records a direct polygon-edge adjacency for later
// merging once BuildAdjacency runs (ringEdges is populated during vertex
// collection, before Adjacency itself is allocated).
func (l *GraphLevel) linkRingNeighbors(a, b int) {
	l.ringEdges = append(l.ringEdges, [2]int{a, b})
}
