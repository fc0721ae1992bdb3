// Package planner implements the hierarchical A* search that turns a
// start/goal pair (or an ordered list of waypoints) into a navigable
// route over a hvgraph Hierarchy: a coarse search at the simplest level
// followed by successive corridor-restricted refinements down to the
// full-resolution level, falling back to a direct full-resolution search
// whenever a refinement step cannot find or confirm a route.
package planner

import (
	"context"
	"time"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/hvgraph"
)

// PlannerResult is the output of a single start/goal search: the ordered
// list of points the route passes through, plus the GeoSegment connecting
// each consecutive pair. A nil or single-point Points slice means no
// route was found. Invariant: len(Segments) == len(Points)-1, and
// Segments[i] runs from Points[i] to Points[i+1] (spec.md §3/§8).
type PlannerResult struct {
	Points   []geo.Point
	Segments []geo.Segment
}

// NewPlannerResult builds a PlannerResult from points, deriving the
// connecting Segments slice.
func NewPlannerResult(points []geo.Point) PlannerResult {
	return PlannerResult{Points: points, Segments: segmentsFor(points)}
}

func segmentsFor(points []geo.Point) []geo.Segment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]geo.Segment, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		segs[i] = geo.NewSegment(points[i], points[i+1])
	}
	return segs
}

// Found reports whether the result carries a usable route.
func (r PlannerResult) Found() bool {
	return len(r.Points) >= 2
}

// Length returns the route's total geodesic length in meters.
func (r PlannerResult) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(r.Points); i++ {
		total += r.Points[i].Distance(r.Points[i+1])
	}
	return total
}

// ProgressEvent reports progress through a multi-waypoint query.
type ProgressEvent struct {
	SegmentIndex int
	TotalSegments int
	Elapsed      time.Duration
}

// ProgressFunc receives progress events during FindPathMultiWaypoint; nil
// is a valid no-op callback.
type ProgressFunc func(ProgressEvent)

// Planner searches a hvgraph Hierarchy. It holds no per-query state, so
// a single Planner is safe to reuse (and to query concurrently) across
// many FindPath calls.
type Planner struct {
	Hierarchy *hvgraph.Hierarchy
}

// New builds a Planner over h.
func New(h *hvgraph.Hierarchy) *Planner {
	return &Planner{Hierarchy: h}
}

// FindPath finds a route from start to goal: a coarse search at the
// coarsest level, refined level-by-level through a narrow corridor
// around the previous level's route, falling back to a direct
// full-resolution search if any refinement step fails. A Cancelled
// context yields an empty, error-free result rather than an error;
// malformed hierarchy state (e.g. an empty level) is reported as an
// error.
func (p *Planner) FindPath(ctx context.Context, start, goal geo.Point) (PlannerResult, error) {
	if len(p.Hierarchy.Levels[0].Vertices) == 0 {
		return PlannerResult{}, hvgerr.New("planner.FindPath", hvgerr.InvalidArgument)
	}

	start = p.snapToWater(start)
	goal = p.snapToWater(goal)

	removeShortcut := p.addAntimeridianShortcutIfVisible(ctx, start, goal)
	if removeShortcut != nil {
		defer removeShortcut()
	}

	coarse, ok := p.searchFullLevel(ctx, p.Hierarchy.Levels[hvgraph.NumLevels-1], start, goal)
	if ctx.Err() != nil {
		return PlannerResult{}, nil
	}
	if !ok {
		return p.directFullSearch(ctx, start, goal)
	}

	current := coarse
	for level := hvgraph.NumLevels - 2; level >= 0; level-- {
		refined, ok := p.refineWithCorridor(ctx, current, p.Hierarchy.Levels[level], start, goal)
		if ctx.Err() != nil {
			return PlannerResult{}, nil
		}
		if !ok {
			return p.directFullSearch(ctx, start, goal)
		}
		current = refined
	}

	return NewPlannerResult(current), nil
}

// directFullSearch is the fallback path: a full-adjacency A* over level
// 0 with no corridor restriction, tried when hierarchical refinement
// cannot produce a route.
func (p *Planner) directFullSearch(ctx context.Context, start, goal geo.Point) (PlannerResult, error) {
	points, ok := p.searchFullLevel(ctx, p.Hierarchy.Levels[0], start, goal)
	if ctx.Err() != nil {
		return PlannerResult{}, nil
	}
	if !ok {
		return PlannerResult{}, nil
	}
	return NewPlannerResult(points), nil
}
