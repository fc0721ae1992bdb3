package corridor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgraph"
	"github.com/shipnetsim/hvg/internal/poly"
)

func seaWithIsland(t *testing.T) *hvgraph.GraphLevel {
	t.Helper()
	outer := []geo.Point{
		geo.NewPoint(-10, -10), geo.NewPoint(10, -10), geo.NewPoint(10, 10), geo.NewPoint(-10, 10),
	}
	island := []geo.Point{
		geo.NewPoint(-1, -1), geo.NewPoint(1, -1), geo.NewPoint(1, 1), geo.NewPoint(-1, 1),
	}
	p, err := poly.NewPolygon("sea", outer, [][]geo.Point{island})
	require.NoError(t, err)
	level, err := hvgraph.BuildGraphLevel(0, 0, []*poly.Polygon{p})
	require.NoError(t, err)
	require.NoError(t, level.BuildAdjacency(context.Background()))
	return level
}

func TestBuildExpandsBounds(t *testing.T) {
	level := seaWithIsland(t)
	path := []geo.Point{geo.NewPoint(-1, -1), geo.NewPoint(1, 1)}
	c := Build(path, level)

	assert.Less(t, c.Bounds.MinLon, -1.0)
	assert.Greater(t, c.Bounds.MaxLon, 1.0)
}

func TestPrecomputeBuildsAdjacency(t *testing.T) {
	level := seaWithIsland(t)
	path := []geo.Point{geo.NewPoint(-1, -1), geo.NewPoint(1, 1)}
	c := Build(path, level)
	require.NoError(t, c.Precompute(context.Background()))

	hasEdge := false
	for i := 0; i < c.Size(); i++ {
		if len(c.Neighbors(i)) > 0 {
			hasEdge = true
			break
		}
	}
	assert.True(t, hasEdge)
}

func TestPrecomputeWithEndpointsAddsProxies(t *testing.T) {
	level := seaWithIsland(t)
	path := []geo.Point{geo.NewPoint(-1, -1), geo.NewPoint(1, 1)}
	c := Build(path, level)
	c.SetEndpoints(geo.NewPoint(-3, 0), geo.NewPoint(3, 0))
	require.NoError(t, c.Precompute(context.Background()))

	assert.NotEqual(t, -1, c.StartID())
	assert.NotEqual(t, -1, c.GoalID())
	assert.NotEmpty(t, c.Neighbors(c.StartID()))
}
