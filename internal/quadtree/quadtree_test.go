package quadtree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

func square(id string, lon0, lat0, lon1, lat1 float64) *poly.Polygon {
	ring := []geo.Point{
		geo.NewPoint(lon0, lat0),
		geo.NewPoint(lon1, lat0),
		geo.NewPoint(lon1, lat1),
		geo.NewPoint(lon0, lat1),
	}
	p, err := poly.NewPolygon(id, ring, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func TestBuildFromPolygonsSubdivides(t *testing.T) {
	var polys []*poly.Polygon
	for i := 0; i < 200; i++ {
		f := float64(i) * 0.01
		polys = append(polys, square("p", f, f, f+0.005, f+0.005))
	}
	tr := BuildFromPolygons(polys, 8)
	stats := tr.Stats()
	assert.Greater(t, stats.LeafCount, 1)
	assert.Greater(t, stats.NodeCount, stats.LeafCount)
}

func TestInsertRejectsZeroEdge(t *testing.T) {
	tr := New(poly.Bounds{MinLon: -10, MaxLon: 10, MinLat: -10, MaxLat: 10}, 4)
	err := tr.Insert(Edge{})
	require.Error(t, err)
}

func TestFindSegmentRoundTrip(t *testing.T) {
	p := square("island", 10, 10, 11, 11)
	tr := BuildFromPolygons([]*poly.Polygon{p}, 4)
	outer := p.Outer()
	e, ok := tr.FindSegment(outer[0], outer[1])
	assert.True(t, ok)
	assert.Equal(t, "island", e.PolygonID)

	_, ok = tr.FindSegment(geo.NewPoint(50, 50), geo.NewPoint(51, 51))
	assert.False(t, ok)
}

func TestSegmentsInRange(t *testing.T) {
	p := square("box", 0, 0, 1, 1)
	tr := BuildFromPolygons([]*poly.Polygon{p}, 4)
	edges := tr.SegmentsInRange(poly.Bounds{MinLon: -1, MaxLon: 2, MinLat: -1, MaxLat: 2})
	assert.Len(t, edges, 4)

	none := tr.SegmentsInRange(poly.Bounds{MinLon: 50, MaxLon: 51, MinLat: 50, MaxLat: 51})
	assert.Empty(t, none)
}

func TestVerticesInRangeDeduplicates(t *testing.T) {
	p := square("box", 0, 0, 1, 1)
	tr := BuildFromPolygons([]*poly.Polygon{p}, 4)
	verts := tr.VerticesInRange(poly.Bounds{MinLon: -1, MaxLon: 2, MinLat: -1, MaxLat: 2})
	assert.Len(t, verts, 4)
}

func TestNearestEdgeFindsClosest(t *testing.T) {
	near := square("near", 0, 0, 1, 1)
	far := square("far", 20, 20, 21, 21)
	tr := BuildFromPolygons([]*poly.Polygon{near, far}, 4)

	probe := geo.NewPoint(0.5, 1.2)
	edge, dist, found := tr.NearestEdge(probe)
	require.True(t, found)
	assert.Equal(t, "near", edge.PolygonID)
	assert.Less(t, dist, 50000.0)
}

func TestNearestVertexFindsClosest(t *testing.T) {
	p := square("box", 0, 0, 1, 1)
	tr := BuildFromPolygons([]*poly.Polygon{p}, 4)
	probe := geo.NewPoint(0.01, 0.01)
	v, _, found := tr.NearestVertex(probe)
	require.True(t, found)
	assert.InDelta(t, 0, v.Lon, 1e-9)
	assert.InDelta(t, 0, v.Lat, 1e-9)
}

func TestSplitAtAntimeridianInsertsBothSides(t *testing.T) {
	tr := New(poly.Bounds{MinLon: -180, MaxLon: 180, MinLat: -10, MaxLat: 10}, 4)
	edge := Edge{A: geo.NewPoint(179, 0), B: geo.NewPoint(-179, 0), PolygonID: "wrap"}
	require.NoError(t, tr.Insert(edge))

	east := tr.SegmentsInRange(poly.Bounds{MinLon: 170, MaxLon: 180, MinLat: -5, MaxLat: 5})
	west := tr.SegmentsInRange(poly.Bounds{MinLon: -180, MaxLon: -170, MinLat: -5, MaxLat: 5})
	assert.NotEmpty(t, east)
	assert.NotEmpty(t, west)
}

func TestDeleteRemovesEdge(t *testing.T) {
	p := square("box", 0, 0, 1, 1)
	tr := BuildFromPolygons([]*poly.Polygon{p}, 4)
	outer := p.Outer()
	edge := Edge{A: outer[0], B: outer[1], PolygonID: "box"}
	assert.True(t, tr.Delete(edge))
	_, ok := tr.FindSegment(outer[0], outer[1])
	assert.False(t, ok)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	var polys []*poly.Polygon
	for i := 0; i < 50; i++ {
		f := float64(i) * 0.02
		polys = append(polys, square("p", f, f, f+0.01, f+0.01))
	}
	tr := BuildFromPolygons(polys, 4)

	var buf bytes.Buffer
	require.NoError(t, tr.Serialize(&buf))

	restored, err := Deserialize(&buf)
	require.NoError(t, err)

	before := tr.Stats()
	after := restored.Stats()
	assert.Equal(t, before.NodeCount, after.NodeCount)
	assert.Equal(t, before.LeafCount, after.LeafCount)

	sample := polys[0].Outer()
	_, ok := restored.FindSegment(sample[0], sample[1])
	assert.True(t, ok)
}
