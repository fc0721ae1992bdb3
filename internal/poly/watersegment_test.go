package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipnetsim/hvg/internal/geo"
)

// TestIsValidWaterSegmentRejectsPathThroughHole uses scenario 2's polygon
// with a segment that runs straight through the hole's interior at
// lat=40.5 (the hole spans lon [-74.8,-74.2], lat [40.3,40.7]).
func TestIsValidWaterSegmentRejectsPathThroughHole(t *testing.T) {
	p := scenario2(t)
	s := geo.NewSegment(geo.NewPoint(-75, 40.5), geo.NewPoint(-74, 40.5))
	assert.False(t, p.IsValidWaterSegment(s))
}

// TestIsValidWaterSegmentAcceptsClearPath uses a segment entirely west of
// the hole's longitude range, well clear of it.
func TestIsValidWaterSegmentAcceptsClearPath(t *testing.T) {
	p := scenario2(t)
	s := geo.NewSegment(geo.NewPoint(-75.8, 39.2), geo.NewPoint(-75.8, 39.8))
	assert.True(t, p.IsValidWaterSegment(s))
}

func TestIsValidWaterSegmentTrueWithoutHoles(t *testing.T) {
	solid, err := NewPolygon("solid", []geo.Point{
		geo.NewPoint(-76, 39), geo.NewPoint(-72, 39), geo.NewPoint(-72, 42), geo.NewPoint(-76, 42),
	}, nil)
	assert.NoError(t, err)

	s := geo.NewSegment(geo.NewPoint(-75, 40), geo.NewPoint(-73, 41))
	assert.True(t, solid.IsValidWaterSegment(s))
}

func TestGetMaxClearWidthIsNonNegative(t *testing.T) {
	p := scenario2(t)
	s := geo.NewSegment(geo.NewPoint(-75.5, 39.5), geo.NewPoint(-75.0, 39.2))
	width := p.GetMaxClearWidth(s)
	assert.GreaterOrEqual(t, width, 0.0)
}

func TestGetMaxClearWidthZeroForEmptyPolygon(t *testing.T) {
	p := &Polygon{}
	s := geo.NewSegment(geo.NewPoint(0, 0), geo.NewPoint(1, 1))
	assert.Equal(t, 0.0, p.GetMaxClearWidth(s))
}
