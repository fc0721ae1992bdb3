// Package smoother implements C10 (PathSmoother): replacing sharp
// corners in a PlannerResult with circular arcs tangent to the incoming
// and outgoing legs, sized to a ship's minimum turning radius, grounded
// on spec.md §4.10 and the radius-reduction and conflict-check behavior
// recovered from original_source/src/ShipNetSimCore/network/
// dubinspathsmoother.cpp.
package smoother

import (
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/planner"
)

// Options configures corner smoothing.
type Options struct {
	// TurningRadiusMeters is the ship's nominal minimum turning radius R.
	TurningRadiusMeters float64
	// ArcStepMeters is the target arc length between generated sub-points.
	ArcStepMeters float64
	// MinTurnAngleDeg is the smallest turn angle worth replacing with an
	// arc; shallower turns below this are left as-is.
	MinTurnAngleDeg float64
	// MaxTurnAngleDeg is the largest turn angle ever smoothed; near a
	// reversal the tangent construction is numerically degenerate, so the
	// corner is kept unsmoothed above this angle (recovered from the
	// original's maxAllowedAngle guard, independent of the tan-based
	// check in step 4).
	MaxTurnAngleDeg float64
	// AllowRadiusReduction permits shrinking R down to MinRadiusMeters
	// when the adjacent legs are too short for a full-radius arc.
	AllowRadiusReduction bool
	// MinRadiusMeters is the floor a reduced radius may never cross.
	MinRadiusMeters float64
}

// DefaultOptions returns the smoother's default tuning, following the
// teacher's DefaultParseOptions/DefaultLoadOptions pattern of a
// zero-argument constructor paired with every Options type.
func DefaultOptions() Options {
	return Options{
		TurningRadiusMeters:  500,
		ArcStepMeters:        50,
		MinTurnAngleDeg:      5,
		MaxTurnAngleDeg:      175,
		AllowRadiusReduction: true,
		MinRadiusMeters:      100,
	}
}

// tanNearDegenerate is the spec.md §4.10 step-4 guard: if tan(|delta|/2)
// exceeds this, the tangent distance blows up and the corner is kept.
const tanNearDegenerate = 100.0

// radiusShrinkFactor is applied to the available leg length before
// solving for a reduced radius, leaving headroom so the new tangent
// point never lands exactly on the neighboring waypoint.
const radiusShrinkFactor = 0.9

// Smooth replaces each interior corner of result with a tangent circular
// arc per spec.md §4.10, skipping ports (dwell > 0), corners below
// opts.MinTurnAngleDeg, and corners that cannot be smoothed without
// crossing opts.MinRadiusMeters. It also resolves conflicts between two
// smoothed corners whose tangent points would otherwise overlap, per the
// original's pairwise "closer than 2R" check.
func Smooth(result planner.PlannerResult, opts Options) planner.PlannerResult {
	points := result.Points
	if len(points) < 3 {
		return result
	}

	corners := planCorners(points, opts)
	resolveConflicts(points, corners, opts)

	out := make([]geo.Point, 0, len(points)*2)
	out = append(out, points[0])
	for i := 1; i+1 < len(points); i++ {
		c := corners[i]
		if c == nil {
			out = append(out, points[i])
			continue
		}
		out = append(out, c.arcPoints(opts)...)
	}
	out = append(out, points[len(points)-1])

	return planner.NewPlannerResult(out)
}

// corner holds the resolved tangent/arc geometry for one smoothed
// waypoint; nil in the corners slice means "keep this waypoint as-is".
type corner struct {
	tIn, tOut  geo.Point
	center     geo.Point
	radius     float64
	deltaDeg   float64 // signed turn angle; positive = starboard/right turn
	startAzi   float64 // azimuth from center to tIn
}

// planCorners computes, for every interior waypoint, the arc that would
// replace it, or nil if the corner should be kept verbatim. It does not
// yet account for conflicts between adjacent corners; resolveConflicts
// does that afterward.
func planCorners(points []geo.Point, opts Options) []*corner {
	corners := make([]*corner, len(points))
	for i := 1; i+1 < len(points); i++ {
		prev, cur, next := points[i-1], points[i], points[i+1]
		if cur.IsPort() {
			continue
		}

		aIn := prev.ForwardAzimuth(cur)
		aOut := cur.ForwardAzimuth(next)
		delta := normalizeSigned(aOut - aIn)
		if math.Abs(delta) < opts.MinTurnAngleDeg {
			continue
		}
		if math.Abs(delta) > opts.MaxTurnAngleDeg {
			continue
		}

		halfRad := toRad(math.Abs(delta)) / 2
		if math.Tan(halfRad) > tanNearDegenerate {
			continue
		}

		legIn := prev.Distance(cur)
		legOut := cur.Distance(next)
		radius, ok := fitRadius(opts, halfRad, legIn, legOut)
		if !ok {
			continue
		}

		t := radius * math.Tan(halfRad)
		tIn := cur.Destination(t, aIn+180)
		tOut := cur.Destination(t, aOut)

		bisector := aIn + delta/2
		centerAzi := bisector + 90
		if delta < 0 {
			centerAzi = bisector - 90
		}
		center := cur.Destination(radius/math.Cos(halfRad), centerAzi)

		corners[i] = &corner{
			tIn: tIn, tOut: tOut, center: center, radius: radius,
			deltaDeg: delta, startAzi: center.ForwardAzimuth(tIn),
		}
	}
	return corners
}

// fitRadius returns opts.TurningRadiusMeters if both legs can host a
// full-radius tangent, or a shrunk radius (never below MinRadiusMeters)
// if AllowRadiusReduction permits it, or ok=false if the corner must be
// kept.
func fitRadius(opts Options, halfRad, legIn, legOut float64) (float64, bool) {
	t := opts.TurningRadiusMeters * math.Tan(halfRad)
	available := math.Min(legIn, legOut)
	if t <= available {
		return opts.TurningRadiusMeters, true
	}
	if !opts.AllowRadiusReduction {
		return 0, false
	}
	reduced := radiusShrinkFactor * available / math.Tan(halfRad)
	if reduced < opts.MinRadiusMeters {
		return 0, false
	}
	return reduced, true
}

// resolveConflicts forces radius reduction on both members of any
// adjacent smoothed-corner pair whose tangent points would overlap: the
// leg between waypoints i and i+1 must be at least as long as the sum of
// the two corners' tangent distances on that leg.
func resolveConflicts(points []geo.Point, corners []*corner, opts Options) {
	for i := 1; i+1 < len(points); i++ {
		c1 := corners[i]
		if c1 == nil {
			continue
		}
		for j := i + 1; j+1 < len(points); j++ {
			c2 := corners[j]
			if c2 == nil {
				continue
			}
			if !sameLeg(points, i, j) {
				break
			}
			legLen := points[i].Distance(points[j])
			t1 := points[i].Distance(c1.tOut)
			t2 := points[j].Distance(c2.tIn)
			if t1+t2 <= legLen {
				break
			}
			shrinkPair(points, corners, i, j, opts)
			break
		}
	}
}

// sameLeg reports whether i and j are the two endpoints of a single
// unsmoothed leg, i.e. there is no other waypoint between them.
func sameLeg(points []geo.Point, i, j int) bool {
	return j == i+1
}

// shrinkPair recomputes corners i and j using half the leg between them
// as each one's available length, enforcing AllowRadiusReduction/
// MinRadiusMeters exactly as a single-corner fit would.
func shrinkPair(points []geo.Point, corners []*corner, i, j int, opts Options) {
	legLen := points[i].Distance(points[j])
	half := legLen / 2

	recompute := func(idx int, prev, cur, next geo.Point, availableOverride float64) {
		aIn := prev.ForwardAzimuth(cur)
		aOut := cur.ForwardAzimuth(next)
		delta := normalizeSigned(aOut - aIn)
		halfRad := toRad(math.Abs(delta)) / 2

		legIn := prev.Distance(cur)
		legOut := cur.Distance(next)
		if idx == i {
			legOut = math.Min(legOut, availableOverride)
		} else {
			legIn = math.Min(legIn, availableOverride)
		}

		radius, ok := fitRadius(opts, halfRad, legIn, legOut)
		if !ok {
			corners[idx] = nil
			return
		}
		t := radius * math.Tan(halfRad)
		tIn := cur.Destination(t, aIn+180)
		tOut := cur.Destination(t, aOut)
		bisector := aIn + delta/2
		centerAzi := bisector + 90
		if delta < 0 {
			centerAzi = bisector - 90
		}
		center := cur.Destination(radius/math.Cos(halfRad), centerAzi)
		corners[idx] = &corner{
			tIn: tIn, tOut: tOut, center: center, radius: radius,
			deltaDeg: delta, startAzi: center.ForwardAzimuth(tIn),
		}
	}

	recompute(i, points[i-1], points[i], points[i+1], half)
	recompute(j, points[j-1], points[j], points[j+1], half)
}

// arcPoints generates the tangent-entry, arc interior, and tangent-exit
// points for c, walking from tIn to tOut around center in the turn's
// own direction (increasing azimuth, i.e. clockwise, for a starboard/right
// turn; counter-clockwise for port).
func (c *corner) arcPoints(opts Options) []geo.Point {
	sweepDeg := math.Abs(c.deltaDeg)
	sweepRad := toRad(sweepDeg)
	arcLen := c.radius * sweepRad

	n := int(math.Ceil(arcLen / maxf(opts.ArcStepMeters, 1)))
	if n < 3 {
		n = 3
	}

	points := make([]geo.Point, 0, n+1)
	points = append(points, c.tIn)
	direction := 1.0
	if c.deltaDeg < 0 {
		direction = -1.0
	}
	for k := 1; k < n; k++ {
		frac := float64(k) / float64(n)
		azi := c.startAzi + direction*sweepDeg*frac
		points = append(points, c.center.Destination(c.radius, azi))
	}
	points = append(points, c.tOut)
	return points
}

func normalizeSigned(deg float64) float64 {
	for deg <= -180 {
		deg += 360
	}
	for deg > 180 {
		deg -= 360
	}
	return deg
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
