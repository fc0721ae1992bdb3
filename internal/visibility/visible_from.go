package visibility

import (
	"context"

	"github.com/shipnetsim/hvg/internal/geo"
)

// pointVisCacheSize bounds the getVisibleNodesForPoint cache so a long
// multi-waypoint query doesn't grow it unboundedly; the whole cache is
// cleared once the bound is hit.
const pointVisCacheSize = 4096

type pointKey struct {
	p        [2]int64
	corridor uintptr
}

// VisibleVerticesFrom returns the subset of candidates visible from p,
// caching the result per (point, candidate-set identity) so repeated
// calls during hierarchical refinement reuse prior work. candidateSetID
// should be stable for a given candidate slice (callers pass the
// corridor or level pointer as a cheap identity).
func (o *Oracle) VisibleVerticesFrom(ctx context.Context, p geo.Point, candidates []geo.Point, candidateSetID uintptr) []geo.Point {
	key := pointKey{p: p.QuantizedKey(), corridor: candidateSetID}

	o.pointCacheMu.RLock()
	if v, ok := o.pointCache[key]; ok {
		o.pointCacheMu.RUnlock()
		return v
	}
	o.pointCacheMu.RUnlock()

	var visible []geo.Point
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		if o.IsVisible(ctx, p, c) {
			visible = append(visible, c)
		}
	}

	o.pointCacheMu.Lock()
	if len(o.pointCache) >= pointVisCacheSize {
		o.pointCache = make(map[pointKey][]geo.Point)
	}
	o.pointCache[key] = visible
	o.pointCacheMu.Unlock()

	return visible
}
