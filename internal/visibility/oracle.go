// Package visibility implements the visibility oracle: whether the
// geodesic between two points crosses any obstacle edge, cached and
// protected by a reader/writer lock the way the teacher guards its chart
// cache.
package visibility

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/quadtree"
)

// ShortSegmentThresholdMeters is the length below which a segment is
// quick-accepted as visible without querying the quadtree at all.
const ShortSegmentThresholdMeters = 1.0

// parallelCandidateThreshold is the distinct-edge count above which edge
// testing fans out across goroutines.
const parallelCandidateThreshold = 1000

type vertexPairKey struct {
	a, b [2]int64
}

func keyFor(a, b geo.Point) vertexPairKey {
	ka, kb := a.QuantizedKey(), b.QuantizedKey()
	if ka[0] > kb[0] || (ka[0] == kb[0] && ka[1] > kb[1]) {
		ka, kb = kb, ka
	}
	return vertexPairKey{ka, kb}
}

// Oracle answers isVisible queries against one level's quadtree, caching
// results per unordered vertex pair and honoring a caller-managed set of
// manual edges that are always treated as visible.
type Oracle struct {
	tree *quadtree.Tree

	mu    sync.RWMutex
	cache map[vertexPairKey]bool

	manualMu sync.RWMutex
	manual   map[vertexPairKey]bool

	pointCacheMu sync.RWMutex
	pointCache   map[pointKey][]geo.Point
}

// New builds an Oracle backed by tree.
func New(tree *quadtree.Tree) *Oracle {
	return &Oracle{
		tree:       tree,
		cache:      make(map[vertexPairKey]bool),
		manual:     make(map[vertexPairKey]bool),
		pointCache: make(map[pointKey][]geo.Point),
	}
}

// AddManualEdge marks the segment between a and b as always visible,
// bypassing geometric testing, and invalidates the visibility cache
// (a manual edge can change the answer for pairs already cached).
func (o *Oracle) AddManualEdge(a, b geo.Point) {
	o.manualMu.Lock()
	o.manual[keyFor(a, b)] = true
	o.manualMu.Unlock()

	o.mu.Lock()
	o.cache = make(map[vertexPairKey]bool)
	o.mu.Unlock()

	o.pointCacheMu.Lock()
	o.pointCache = make(map[pointKey][]geo.Point)
	o.pointCacheMu.Unlock()
}

// RemoveManualEdge undoes a single AddManualEdge call, leaving any other
// manual edges in place.
func (o *Oracle) RemoveManualEdge(a, b geo.Point) {
	o.manualMu.Lock()
	delete(o.manual, keyFor(a, b))
	o.manualMu.Unlock()

	o.mu.Lock()
	o.cache = make(map[vertexPairKey]bool)
	o.mu.Unlock()

	o.pointCacheMu.Lock()
	o.pointCache = make(map[pointKey][]geo.Point)
	o.pointCacheMu.Unlock()
}

// ClearManualEdges removes every manual edge and invalidates the cache.
func (o *Oracle) ClearManualEdges() {
	o.manualMu.Lock()
	o.manual = make(map[vertexPairKey]bool)
	o.manualMu.Unlock()

	o.mu.Lock()
	o.cache = make(map[vertexPairKey]bool)
	o.mu.Unlock()

	o.pointCacheMu.Lock()
	o.pointCache = make(map[pointKey][]geo.Point)
	o.pointCacheMu.Unlock()
}

func (o *Oracle) isManual(a, b geo.Point) bool {
	o.manualMu.RLock()
	defer o.manualMu.RUnlock()
	return o.manual[keyFor(a, b)]
}

// IsVisible reports whether the geodesic from a to b avoids every
// obstacle edge indexed by the oracle's quadtree, per the algorithm in
// the visibility component: identity, manual edges, cache, antimeridian
// split, short-segment quick-accept, then quadtree-pruned edge testing.
func (o *Oracle) IsVisible(ctx context.Context, a, b geo.Point) bool {
	if a.Equal(b) {
		return true
	}
	if o.isManual(a, b) {
		return true
	}

	key := keyFor(a, b)
	o.mu.RLock()
	if v, ok := o.cache[key]; ok {
		o.mu.RUnlock()
		return v
	}
	o.mu.RUnlock()

	result := o.computeVisibility(ctx, a, b)

	o.mu.Lock()
	o.cache[key] = result
	o.mu.Unlock()
	return result
}

func (o *Oracle) computeVisibility(ctx context.Context, a, b geo.Point) bool {
	seg := geo.NewSegment(a, b)

	if antimeridianCrossing(a, b) {
		mid := antimeridianSplit(seg)
		return o.segmentClear(ctx, mid[0]) && o.segmentClear(ctx, mid[1])
	}
	return o.segmentClear(ctx, seg)
}

func (o *Oracle) segmentClear(ctx context.Context, seg geo.Segment) bool {
	if seg.Length() < ShortSegmentThresholdMeters {
		return true
	}

	var leaves []quadtree.LeafNodeID
	if err := ctx.Err(); err != nil {
		return false
	}
	leaves = o.tree.IntersectingLeafNodes(seg)

	edges := dedupeEdges(o.tree, leaves)
	if len(edges) > parallelCandidateThreshold {
		return parallelAllClear(ctx, seg, edges)
	}
	for _, e := range edges {
		if seg.Intersects(e.Segment(), true) {
			return false
		}
	}
	return true
}

func dedupeEdges(tree *quadtree.Tree, leaves []quadtree.LeafNodeID) []quadtree.Edge {
	seen := make(map[edgeIdentity]bool)
	var result []quadtree.Edge
	for _, l := range leaves {
		for _, e := range tree.EdgesAt(l) {
			id := identityOf(e)
			if seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, e)
		}
	}
	return result
}

type edgeIdentity struct {
	a, b [2]int64
}

func identityOf(e quadtree.Edge) edgeIdentity {
	ka, kb := e.A.QuantizedKey(), e.B.QuantizedKey()
	if ka[0] > kb[0] || (ka[0] == kb[0] && ka[1] > kb[1]) {
		ka, kb = kb, ka
	}
	return edgeIdentity{ka, kb}
}

func parallelAllClear(ctx context.Context, seg geo.Segment, edges []quadtree.Edge) bool {
	const workers = 8
	chunk := (len(edges) + workers - 1) / workers

	var blocked atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(edges); i += chunk {
		end := i + chunk
		if end > len(edges) {
			end = len(edges)
		}
		slice := edges[i:end]
		g.Go(func() error {
			for _, e := range slice {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if seg.Intersects(e.Segment(), true) {
					blocked.Store(true)
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return !blocked.Load()
}
