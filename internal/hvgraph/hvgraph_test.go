package hvgraph

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

func diamond(id string, cx, cy, r float64) *poly.Polygon {
	ring := []geo.Point{
		geo.NewPoint(cx, cy+r),
		geo.NewPoint(cx+r, cy),
		geo.NewPoint(cx, cy-r),
		geo.NewPoint(cx-r, cy),
	}
	p, err := poly.NewPolygon(id, ring, nil)
	if err != nil {
		panic(err)
	}
	return p
}

func TestDouglasPeuckerKeepsEndpointsAndDropsColinear(t *testing.T) {
	ring := []geo.Point{
		geo.NewPoint(0, 0),
		geo.NewPoint(0, 1),
		geo.NewPoint(0, 2),
		geo.NewPoint(2, 2),
		geo.NewPoint(0, 0),
	}
	simplified := douglasPeucker(ring, 50000)
	assert.True(t, simplified[0].Equal(ring[0]))
	assert.True(t, simplified[len(simplified)-1].Equal(ring[len(ring)-1]))
	assert.Less(t, len(simplified), len(ring))
}

func TestBuildGraphLevelAssignsDenseIDs(t *testing.T) {
	p := diamond("d", 0, 0, 1)
	level, err := BuildGraphLevel(0, 0, []*poly.Polygon{p})
	require.NoError(t, err)
	assert.Len(t, level.Vertices, 4)
	for i, v := range level.PolygonOfVertex {
		assert.Equal(t, "d", v, "vertex %d", i)
	}
}

func TestBuildAdjacencyLinksRingNeighbors(t *testing.T) {
	p := diamond("d", 0, 0, 1)
	level, err := BuildGraphLevel(0, 0, []*poly.Polygon{p})
	require.NoError(t, err)
	require.NoError(t, level.BuildAdjacency(context.Background()))

	for i := range level.Vertices {
		assert.GreaterOrEqual(t, len(level.NeighborsOf(i)), 2)
	}
}

func TestHierarchyBuildSimplifiesCoarserLevels(t *testing.T) {
	p := diamond("d", 0, 0, 5)
	h, err := Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)

	assert.Equal(t, 0.0, h.Levels[0].ToleranceMeters)
	assert.Equal(t, LevelTolerances[3], h.Levels[3].ToleranceMeters)
}

func TestMapBoundsCoversPolygon(t *testing.T) {
	p := diamond("d", 10, 20, 2)
	h, err := Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)

	minP, maxP := h.MapBounds()
	assert.LessOrEqual(t, minP.Lon, 8.0)
	assert.GreaterOrEqual(t, maxP.Lon, 12.0)
}

func TestManualEdgeAppliesToAllLevels(t *testing.T) {
	p := diamond("d", 0, 0, 1)
	h, err := Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)

	a := geo.NewPoint(100, 100)
	b := geo.NewPoint(101, 101)
	h.AddManualEdge(a, b)
	for _, l := range h.Levels {
		assert.True(t, l.Oracle.IsVisible(context.Background(), a, b))
	}
	h.ClearManualEdges()
}

func TestAdjacencyCacheRoundTrip(t *testing.T) {
	p := diamond("d", 0, 0, 1)
	h, err := Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)
	require.NoError(t, h.Levels[0].BuildAdjacency(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, h.saveAdjacencyTo(&buf))

	h2, err := Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)

	tmp := t.TempDir() + "/cache.hvg_adj"
	f, err := os.Create(tmp)
	require.NoError(t, err)
	_, err = f.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, h2.LoadAdjacencyCache(tmp))
	assert.Equal(t, len(h.Levels[0].Adjacency), len(h2.Levels[0].Adjacency))
}

func TestPolygonsNearFiltersByBoundingBox(t *testing.T) {
	near := diamond("near", 0, 0, 1)
	far := diamond("far", 50, 50, 1)
	h, err := Build(context.Background(), []*poly.Polygon{near, far})
	require.NoError(t, err)

	candidates := h.Levels[0].PolygonsNear(geo.NewPoint(0, 0))
	require.Len(t, candidates, 1)
	assert.Equal(t, "near", candidates[0].ID)

	assert.Empty(t, h.Levels[0].PolygonsNear(geo.NewPoint(25, 25)))
}
