package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnetsim/hvg/internal/geo"
)

// scenario2 builds spec.md scenario 2's polygon: outer ring (CCW)
// (-76,39),(-72,39),(-72,42),(-76,42), with a hole (CW)
// (-74.8,40.3),(-74.8,40.7),(-74.2,40.7),(-74.2,40.3).
func scenario2(t *testing.T) *Polygon {
	t.Helper()
	outer := []geo.Point{
		geo.NewPoint(-76, 39), geo.NewPoint(-72, 39), geo.NewPoint(-72, 42), geo.NewPoint(-76, 42),
	}
	hole := []geo.Point{
		geo.NewPoint(-74.8, 40.3), geo.NewPoint(-74.8, 40.7), geo.NewPoint(-74.2, 40.7), geo.NewPoint(-74.2, 40.3),
	}
	p, err := NewPolygon("scenario2", outer, [][]geo.Point{hole})
	require.NoError(t, err)
	return p
}

func TestRingsContainEveryOuterAndHoleVertex(t *testing.T) {
	p := scenario2(t)
	for _, v := range p.Outer() {
		assert.True(t, p.RingsContain(v), "outer vertex %v", v)
	}
	for _, hole := range p.Holes() {
		for _, v := range hole {
			assert.True(t, p.RingsContain(v), "hole vertex %v", v)
		}
	}
}

func TestRingsContainRejectsUnrelatedPoint(t *testing.T) {
	p := scenario2(t)
	assert.False(t, p.RingsContain(geo.NewPoint(0, 0)))
}

// TestIsPointInsideScenario2 is spec.md scenario 2's literal containment
// values.
func TestIsPointInsideScenario2(t *testing.T) {
	p := scenario2(t)
	assert.True(t, p.IsPointInside(geo.NewPoint(-74.0, 40.5)))
	assert.False(t, p.IsPointInside(geo.NewPoint(-74.5, 40.5)), "inside hole")
	assert.False(t, p.IsPointInside(geo.NewPoint(-77, 40)), "outside outer ring")
}

func TestNewPolygonRejectsTooFewVertices(t *testing.T) {
	_, err := NewPolygon("degenerate", []geo.Point{geo.NewPoint(0, 0), geo.NewPoint(1, 1)}, nil)
	assert.Error(t, err)
}

func TestNewPolygonRejectsCollinearRing(t *testing.T) {
	_, err := NewPolygon("collinear", []geo.Point{
		geo.NewPoint(0, 0), geo.NewPoint(0, 1), geo.NewPoint(0, 2),
	}, nil)
	assert.Error(t, err)
}

func TestBoundingBoxCoversOuterRing(t *testing.T) {
	p := scenario2(t)
	b := p.BoundingBox()
	assert.Equal(t, -76.0, b.MinLon)
	assert.Equal(t, -72.0, b.MaxLon)
	assert.Equal(t, 39.0, b.MinLat)
	assert.Equal(t, 42.0, b.MaxLat)
}

func TestAreaIsPositiveAndSubtractsHole(t *testing.T) {
	p := scenario2(t)
	withHole := p.Area()

	solid, err := NewPolygon("solid", p.Outer(), nil)
	require.NoError(t, err)

	assert.Greater(t, withHole, 0.0)
	assert.Less(t, withHole, solid.Area())
}

func TestPerimeterIsPositive(t *testing.T) {
	p := scenario2(t)
	assert.Greater(t, p.Perimeter(), 0.0)
}

func TestCrossesAntimeridianFalseForScenario2(t *testing.T) {
	p := scenario2(t)
	assert.False(t, p.CrossesAntimeridian())
}

func TestCrossesAntimeridianTrueForWrappingRing(t *testing.T) {
	ring := []geo.Point{
		geo.NewPoint(179, 10), geo.NewPoint(-179, 10), geo.NewPoint(-179, 11), geo.NewPoint(179, 11),
	}
	p, err := NewPolygon("wrap", ring, nil)
	require.NoError(t, err)
	assert.True(t, p.CrossesAntimeridian())
}
