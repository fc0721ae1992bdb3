package geo

import (
	"math"

	"github.com/shipnetsim/hvg/internal/hvgerr"
)

// Orientation classifies three points by the sign of their spherical
// cross product, the antimeridian/pole-safe replacement for a planar
// determinant.
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

// Segment is a geodesic line segment between two Points. Length and
// azimuths are cached and recomputed whenever an endpoint is replaced via
// SetStart/SetEnd, matching the data model's explicit-invalidation rule.
type Segment struct {
	start, end       Point
	length           float64
	fwdAzi, bwdAzi   float64
	cached           bool
}

// NewSegment builds a Segment and eagerly computes its cached fields.
func NewSegment(start, end Point) Segment {
	s := Segment{start: start, end: end}
	s.recompute()
	return s
}

func (s *Segment) recompute() {
	s.length = s.start.Distance(s.end)
	s.fwdAzi = s.start.ForwardAzimuth(s.end)
	s.bwdAzi = s.start.BackwardAzimuth(s.end)
	s.cached = true
}

// Start returns the segment's start point.
func (s Segment) Start() Point { return s.start }

// End returns the segment's end point.
func (s Segment) End() Point { return s.end }

// SetStart replaces the start point and invalidates cached length/azimuth.
func (s *Segment) SetStart(p Point) {
	s.start = p
	s.recompute()
}

// SetEnd replaces the end point and invalidates cached length/azimuth.
func (s *Segment) SetEnd(p Point) {
	s.end = p
	s.recompute()
}

// Length returns the cached geodesic arc length in meters.
func (s Segment) Length() float64 { return s.length }

// ForwardAzimuth returns the cached start->end azimuth in degrees.
func (s Segment) ForwardAzimuth() float64 { return s.fwdAzi }

// BackwardAzimuth returns the cached end->start-facing azimuth in degrees.
func (s Segment) BackwardAzimuth() float64 { return s.bwdAzi }

// Midpoint returns the point halfway along the segment's geodesic arc.
func (s Segment) Midpoint() Point {
	return s.start.Destination(s.length/2, s.fwdAzi)
}

// Reversed returns a new Segment with endpoints swapped.
func (s Segment) Reversed() Segment {
	return NewSegment(s.end, s.start)
}

// PointAtDistance returns the point d meters along the segment. If
// fromEnd is true, d is measured back from the end instead of forward
// from the start. Returns an OutOfRange error if d is outside
// [0, Length()].
func (s Segment) PointAtDistance(d float64, fromEnd bool) (Point, error) {
	if d < 0 || d > s.length {
		return Point{}, hvgerr.New("geo.Segment.PointAtDistance", hvgerr.OutOfRange)
	}
	if fromEnd {
		return s.end.Destination(d, s.bwdAzi), nil
	}
	return s.start.Destination(d, s.fwdAzi), nil
}

// PerpendicularDistance returns the minimum geodesic distance from point
// to any point on the segment, via golden-section search along the arc
// (f(t) = distance from point to PointAtDistance(t) is unimodal along a
// geodesic short enough not to wrap the planet). Accuracy target: 1m or
// 1e-6 * Length(), whichever is larger, matching the original
// implementation's golden-section tolerance.
func (s Segment) PerpendicularDistance(point Point) float64 {
	if s.length == 0 {
		return s.start.Distance(point)
	}

	const phi = 0.6180339887498949 // (sqrt(5)-1)/2
	lo, hi := 0.0, s.length
	tol := math.Max(1.0, 1e-6*s.length)

	f := func(t float64) float64 {
		p, _ := s.PointAtDistance(t, false)
		return p.Distance(point)
	}

	c := hi - phi*(hi-lo)
	d := lo + phi*(hi-lo)
	fc, fd := f(c), f(d)

	for i := 0; i < 100 && hi-lo > tol; i++ {
		if fc < fd {
			hi = d
			d, fd = c, fc
			c = hi - phi*(hi-lo)
			fc = f(c)
		} else {
			lo = c
			c, fc = d, fd
			d = lo + phi*(hi-lo)
			fd = f(d)
		}
	}

	return math.Min(f((lo+hi)/2), math.Min(f(lo), f(hi)))
}

// SmallestAngleWith returns the non-reflex angle, in degrees, between the
// two outgoing directions of s and other where they share an endpoint.
// The shared endpoint is found by comparing start/end under Point.Equal;
// if none is shared the angle between the two forward azimuths is still
// returned (caller is responsible for checking adjacency).
func (s Segment) SmallestAngleWith(other Segment) float64 {
	var a1, a2 float64
	switch {
	case s.start.Equal(other.start):
		a1, a2 = s.fwdAzi, other.fwdAzi
	case s.start.Equal(other.end):
		a1, a2 = s.fwdAzi, other.bwdAzi
	case s.end.Equal(other.start):
		a1, a2 = s.bwdAzi, other.fwdAzi
	case s.end.Equal(other.end):
		a1, a2 = s.bwdAzi, other.bwdAzi
	default:
		a1, a2 = s.fwdAzi, other.fwdAzi
	}

	diff := math.Abs(a1 - a2)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// unitVector converts a Point to a 3-D unit vector on the sphere, used
// only for orientation tests where a planar determinant would fail near
// the poles and across the antimeridian.
func unitVector(p Point) [3]float64 {
	lat, lon := toRad(p.Lat), toRad(p.Lon)
	cosLat := math.Cos(lat)
	return [3]float64{cosLat * math.Cos(lon), cosLat * math.Sin(lon), math.Sin(lat)}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// OrientationOf returns whether r is clockwise, counter-clockwise, or
// collinear with the directed path p->q, using the 3-D spherical cross
// product of unit vectors (planar determinants are unreliable near the
// poles and across the antimeridian).
func OrientationOf(p, q, r Point) Orientation {
	pv, qv, rv := unitVector(p), unitVector(q), unitVector(r)
	n := cross(pv, qv)
	d := dot(n, rv)
	const eps = 1e-12
	switch {
	case d > eps:
		return CounterClockwise
	case d < -eps:
		return Clockwise
	default:
		return Collinear
	}
}

// Intersects reports whether s and other, as geodesic segments, cross.
// If ignoreSharedEndpoints is true, segments that touch only at a common
// endpoint are not considered intersecting.
func (s Segment) Intersects(other Segment, ignoreSharedEndpoints bool) bool {
	if ignoreSharedEndpoints {
		if s.start.Equal(other.start) || s.start.Equal(other.end) ||
			s.end.Equal(other.start) || s.end.Equal(other.end) {
			// Shared endpoint(s): the segments touch there, which the
			// ignore-shared-endpoints rule treats as non-intersecting.
			return false
		}
	}

	o1 := OrientationOf(s.start, s.end, other.start)
	o2 := OrientationOf(s.start, s.end, other.end)
	o3 := OrientationOf(other.start, other.end, s.start)
	o4 := OrientationOf(other.start, other.end, s.end)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases: check bounding-box containment on the
	// shared great circle.
	if o1 == Collinear && onSegment(s.start, other.start, s.end) {
		return true
	}
	if o2 == Collinear && onSegment(s.start, other.end, s.end) {
		return true
	}
	if o3 == Collinear && onSegment(other.start, s.start, other.end) {
		return true
	}
	if o4 == Collinear && onSegment(other.start, s.end, other.end) {
		return true
	}

	return false
}

func segmentsProperlyCross(s, other Segment) bool {
	o1 := OrientationOf(s.start, s.end, other.start)
	o2 := OrientationOf(s.start, s.end, other.end)
	o3 := OrientationOf(other.start, other.end, s.start)
	o4 := OrientationOf(other.start, other.end, s.end)
	return o1 != o2 && o3 != o4
}

func collinearOverlap(s, other Segment) bool {
	return OrientationOf(s.start, s.end, other.start) == Collinear &&
		OrientationOf(s.start, s.end, other.end) == Collinear
}

// onSegment reports whether q's bounding box lies within the box formed
// by p and r, used only after an orientation test already found p,q,r
// collinear on a shared great circle.
func onSegment(p, q, r Point) bool {
	minLon, maxLon := math.Min(p.Lon, r.Lon), math.Max(p.Lon, r.Lon)
	minLat, maxLat := math.Min(p.Lat, r.Lat), math.Max(p.Lat, r.Lat)
	return q.Lon >= minLon-1e-9 && q.Lon <= maxLon+1e-9 &&
		q.Lat >= minLat-1e-9 && q.Lat <= maxLat+1e-9
}
