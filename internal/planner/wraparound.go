package planner

import (
	"context"
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
)

// antimeridianShortcutSpanDeg is the longitude gap above which a
// start/goal pair is considered a candidate for the wrap-around
// shortcut: if the direct geodesic (which already crosses the +-180
// line internally, per the visibility oracle's antimeridian split) is
// clear, it is installed as a temporary manual edge so every level's
// search can use it directly instead of routing the long way around.
const antimeridianShortcutSpanDeg = 180.0

// addAntimeridianShortcutIfVisible installs a temporary manual edge
// between start and goal when they straddle the antimeridian and the
// direct geodesic between them is obstacle-free, returning a function
// that removes it again. Returns nil if no shortcut was installed.
func (p *Planner) addAntimeridianShortcutIfVisible(ctx context.Context, start, goal geo.Point) func() {
	if math.Abs(start.Lon-goal.Lon) <= antimeridianShortcutSpanDeg {
		return nil
	}
	level0 := p.Hierarchy.Levels[0]
	if !level0.Oracle.IsVisible(ctx, start, goal) {
		return nil
	}

	p.Hierarchy.AddManualEdge(start, goal)
	return func() { p.Hierarchy.RemoveManualEdge(start, goal) }
}
