package visibility

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
	"github.com/shipnetsim/hvg/internal/quadtree"
)

func islandTree(t *testing.T) *quadtree.Tree {
	t.Helper()
	ring := []geo.Point{
		geo.NewPoint(-75.2, 39.0),
		geo.NewPoint(-74.8, 39.0),
		geo.NewPoint(-74.8, 39.4),
		geo.NewPoint(-75.2, 39.4),
	}
	p, err := poly.NewPolygon("island", ring, nil)
	require.NoError(t, err)
	return quadtree.BuildFromPolygons([]*poly.Polygon{p}, 4)
}

func TestIsVisibleAroundObstacle(t *testing.T) {
	o := New(islandTree(t))
	ctx := context.Background()

	blocked := o.IsVisible(ctx, geo.NewPoint(-75.5, 39.2), geo.NewPoint(-74.5, 39.2))
	assert.False(t, blocked)

	clear := o.IsVisible(ctx, geo.NewPoint(-75.5, 39.5), geo.NewPoint(-75.5, 38.5))
	assert.True(t, clear)
}

func TestIsVisibleSamePointIsTrue(t *testing.T) {
	o := New(islandTree(t))
	p := geo.NewPoint(10, 10)
	assert.True(t, o.IsVisible(context.Background(), p, p))
}

func TestManualEdgeOverridesBlocked(t *testing.T) {
	o := New(islandTree(t))
	a := geo.NewPoint(-75.5, 39.2)
	b := geo.NewPoint(-74.5, 39.2)
	ctx := context.Background()

	require.False(t, o.IsVisible(ctx, a, b))
	o.AddManualEdge(a, b)
	assert.True(t, o.IsVisible(ctx, a, b))

	o.ClearManualEdges()
	assert.False(t, o.IsVisible(ctx, a, b))
}

func TestIsVisibleCaches(t *testing.T) {
	o := New(islandTree(t))
	a := geo.NewPoint(-75.5, 39.5)
	b := geo.NewPoint(-75.5, 38.5)
	ctx := context.Background()

	first := o.IsVisible(ctx, a, b)
	_, ok := o.cache[keyFor(a, b)]
	require.True(t, ok)
	second := o.IsVisible(ctx, a, b)
	assert.Equal(t, first, second)
}

func TestVisibleVerticesFrom(t *testing.T) {
	o := New(islandTree(t))
	p := geo.NewPoint(-75.5, 39.2)
	candidates := []geo.Point{
		geo.NewPoint(-75.5, 38.5),
		geo.NewPoint(-74.5, 39.2),
	}
	visible := o.VisibleVerticesFrom(context.Background(), p, candidates, 1)
	require.Len(t, visible, 1)
	assert.True(t, visible[0].Equal(candidates[0]))
}
