package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentLengthIsNonNegative(t *testing.T) {
	s := NewSegment(NewPoint(-77.0369, 38.9072), NewPoint(-74.0060, 40.7128))
	assert.GreaterOrEqual(t, s.Length(), 0.0)
}

func TestSegmentMidpointIsEquidistantFromEndpoints(t *testing.T) {
	s := NewSegment(NewPoint(-77.0369, 38.9072), NewPoint(-74.0060, 40.7128))
	mid := s.Midpoint()
	assert.InDelta(t, mid.Distance(s.Start()), mid.Distance(s.End()), 1.0)
}

func TestSegmentPointAtDistanceZeroIsStart(t *testing.T) {
	s := NewSegment(NewPoint(-77.0369, 38.9072), NewPoint(-74.0060, 40.7128))
	p, err := s.PointAtDistance(0, false)
	require.NoError(t, err)
	assert.True(t, p.Equal(s.Start()))
}

func TestSegmentPointAtDistanceFullLengthIsEnd(t *testing.T) {
	s := NewSegment(NewPoint(-77.0369, 38.9072), NewPoint(-74.0060, 40.7128))
	p, err := s.PointAtDistance(s.Length(), false)
	require.NoError(t, err)
	assert.True(t, p.Equal(s.End()))
}

func TestSegmentPointAtDistanceRejectsOutOfRange(t *testing.T) {
	s := NewSegment(NewPoint(0, 0), NewPoint(1, 0))
	_, err := s.PointAtDistance(-1, false)
	assert.Error(t, err)
	_, err = s.PointAtDistance(s.Length()+1, false)
	assert.Error(t, err)
}

// TestAntimeridianSegmentLength is scenario 5: (179,40) -> (-179,40)
// reports length ~170,000 m, not the >20,000 km a naive longitude
// subtraction would give.
func TestAntimeridianSegmentLength(t *testing.T) {
	s := NewSegment(NewPoint(179, 40), NewPoint(-179, 40))
	assert.Greater(t, s.Length(), 100000.0)
	assert.Less(t, s.Length(), 250000.0)
	assert.Less(t, s.Length(), 20000000.0)
}

func TestSmallestAngleWithSharedStart(t *testing.T) {
	shared := NewPoint(0, 0)
	a := NewSegment(shared, NewPoint(0, 1))
	b := NewSegment(shared, NewPoint(1, 0))
	angle := a.SmallestAngleWith(b)
	assert.InDelta(t, 90.0, angle, 1.0)
}

func TestOrientationOfCollinearPoints(t *testing.T) {
	o := OrientationOf(NewPoint(0, 0), NewPoint(0, 1), NewPoint(0, 2))
	assert.Equal(t, Collinear, o)
}

func TestIntersectsCrossingSegments(t *testing.T) {
	a := NewSegment(NewPoint(-1, 0), NewPoint(1, 0))
	b := NewSegment(NewPoint(0, -1), NewPoint(0, 1))
	assert.True(t, a.Intersects(b, false))
}

func TestIntersectsParallelSegmentsDoNotCross(t *testing.T) {
	a := NewSegment(NewPoint(0, 0), NewPoint(1, 0))
	b := NewSegment(NewPoint(0, 1), NewPoint(1, 1))
	assert.False(t, a.Intersects(b, false))
}
