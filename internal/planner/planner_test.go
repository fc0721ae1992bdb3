package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgraph"
	"github.com/shipnetsim/hvg/internal/poly"
)

func openSea(t *testing.T) *hvgraph.Hierarchy {
	t.Helper()
	outer := []geo.Point{
		geo.NewPoint(-20, -20), geo.NewPoint(20, -20), geo.NewPoint(20, 20), geo.NewPoint(-20, 20),
	}
	p, err := poly.NewPolygon("sea", outer, nil)
	require.NoError(t, err)
	h, err := hvgraph.Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)
	require.NoError(t, h.Levels[0].BuildAdjacency(context.Background()))
	return h
}

func seaWithIsland(t *testing.T) *hvgraph.Hierarchy {
	t.Helper()
	outer := []geo.Point{
		geo.NewPoint(-20, -20), geo.NewPoint(20, -20), geo.NewPoint(20, 20), geo.NewPoint(-20, 20),
	}
	island := []geo.Point{
		geo.NewPoint(-2, -2), geo.NewPoint(2, -2), geo.NewPoint(2, 2), geo.NewPoint(-2, 2),
	}
	p, err := poly.NewPolygon("sea", outer, [][]geo.Point{island})
	require.NoError(t, err)
	h, err := hvgraph.Build(context.Background(), []*poly.Polygon{p})
	require.NoError(t, err)
	require.NoError(t, h.Levels[0].BuildAdjacency(context.Background()))
	return h
}

func TestFindPathDirectVisibility(t *testing.T) {
	h := openSea(t)
	p := New(h)

	start := geo.NewPoint(-10, -10)
	goal := geo.NewPoint(10, 10)
	result, err := p.FindPath(context.Background(), start, goal)
	require.NoError(t, err)
	require.True(t, result.Found())

	direct := start.Distance(goal)
	assert.InDelta(t, direct, result.Length(), direct*0.05)
}

func TestFindPathAroundIsland(t *testing.T) {
	h := seaWithIsland(t)
	p := New(h)

	start := geo.NewPoint(-10, 0)
	goal := geo.NewPoint(10, 0)
	result, err := p.FindPath(context.Background(), start, goal)
	require.NoError(t, err)
	require.True(t, result.Found())

	direct := start.Distance(goal)
	assert.Greater(t, result.Length(), direct)
}

func TestSnapToWaterMovesLandPoint(t *testing.T) {
	h := openSea(t)
	p := New(h)

	onLand := geo.NewPoint(-30, -30) // well outside the sea polygon
	snapped := p.snapToWater(onLand)
	assert.NotEqual(t, onLand, snapped)

	inWater := geo.NewPoint(0, 0)
	assert.Equal(t, inWater, p.snapToWater(inWater))
}

func TestFindPathMultiWaypointStitches(t *testing.T) {
	h := openSea(t)
	p := New(h)

	waypoints := []geo.Point{
		geo.NewPoint(-10, -10),
		geo.NewPoint(0, 0),
		geo.NewPoint(10, 10),
	}
	var events []ProgressEvent
	result, err := p.FindPathMultiWaypoint(context.Background(), waypoints, func(e ProgressEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)
	require.True(t, result.Found())
	assert.Len(t, events, 2)
	assert.Equal(t, 2, events[1].TotalSegments)
}

func TestFindPathCancellation(t *testing.T) {
	h := openSea(t)
	p := New(h)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.FindPath(ctx, geo.NewPoint(-10, -10), geo.NewPoint(10, 10))
	require.NoError(t, err)
	assert.False(t, result.Found())
}
