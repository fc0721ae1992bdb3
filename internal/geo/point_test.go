package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDistanceAndForwardAzimuthDCToNYC is scenario 1: GeoPoint(-77.0369,
// 38.9072) <-> GeoPoint(-74.0060, 40.7128) (DC<->NYC).
func TestDistanceAndForwardAzimuthDCToNYC(t *testing.T) {
	dc := NewPoint(-77.0369, 38.9072)
	nyc := NewPoint(-74.0060, 40.7128)

	dist := dc.Distance(nyc)
	assert.GreaterOrEqual(t, dist, 295000.0)
	assert.LessOrEqual(t, dist, 361000.0)

	azi := dc.ForwardAzimuth(nyc)
	assert.GreaterOrEqual(t, azi, 0.0)
	assert.LessOrEqual(t, azi, 90.0)
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := NewPoint(-77.0369, 38.9072)
	b := NewPoint(-74.0060, 40.7128)
	assert.InDelta(t, a.Distance(b), b.Distance(a), 1.0)
}

func TestDestinationRoundTripsWithForwardAzimuth(t *testing.T) {
	start := NewPoint(-77.0369, 38.9072)
	end := NewPoint(-74.0060, 40.7128)

	d := start.Distance(end)
	azi := start.ForwardAzimuth(end)
	reached := start.Destination(d, azi)

	assert.True(t, reached.Equal(end), "destination(%v, %v) = %v, want %v", d, azi, reached, end)
}

func TestNewPointNormalizesLongitudeAndClampsLatitude(t *testing.T) {
	p := NewPoint(181, 95)
	assert.InDelta(t, -179, p.Lon, 1e-9)
	assert.Equal(t, 90.0, p.Lat)

	p = NewPoint(-181, -95)
	assert.InDelta(t, 179, p.Lon, 1e-9)
	assert.Equal(t, -90.0, p.Lat)
}

func TestEqualWithinTolerance(t *testing.T) {
	a := NewPoint(-74.0060, 40.7128)
	b := NewPoint(-74.0060, 40.7128)
	assert.True(t, a.Equal(b))

	c := NewPoint(-73.0, 40.7128)
	assert.False(t, a.Equal(c))
}
