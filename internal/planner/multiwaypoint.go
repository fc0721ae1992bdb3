package planner

import (
	"context"
	"time"

	"github.com/shipnetsim/hvg/internal/geo"
)

// FindPathMultiWaypoint stitches together a route through an ordered
// list of waypoints (at least 2), running FindPath independently leg by
// leg and concatenating the results (the shared endpoint of consecutive
// legs is not duplicated). progress, if non-nil, is invoked after each
// leg completes. A leg that finds no route, or a cancelled ctx, stops the
// whole query and returns the partial result accumulated so far with a
// nil error; an error from FindPath is returned alongside the partial
// result.
func (p *Planner) FindPathMultiWaypoint(ctx context.Context, waypoints []geo.Point, progress ProgressFunc) (PlannerResult, error) {
	if len(waypoints) < 2 {
		return PlannerResult{}, nil
	}

	started := time.Now()
	totalLegs := len(waypoints) - 1
	var stitched []geo.Point

	for i := 0; i < totalLegs; i++ {
		leg, err := p.FindPath(ctx, waypoints[i], waypoints[i+1])
		if err != nil {
			return NewPlannerResult(stitched), err
		}
		if ctx.Err() != nil {
			return NewPlannerResult(stitched), nil
		}
		if !leg.Found() {
			return NewPlannerResult(stitched), nil
		}

		if len(stitched) == 0 {
			stitched = append(stitched, leg.Points...)
		} else {
			stitched = append(stitched, leg.Points[1:]...)
		}

		if progress != nil {
			progress(ProgressEvent{SegmentIndex: i, TotalSegments: totalLegs, Elapsed: time.Since(started)})
		}
	}

	return NewPlannerResult(stitched), nil
}
