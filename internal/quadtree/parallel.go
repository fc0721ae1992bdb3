package quadtree

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

// parallelFanoutThreshold is the tree node count at or above which range
// and intersection queries fan out across goroutines instead of walking
// the tree on the calling goroutine.
const parallelFanoutThreshold = 1000

// IntersectingLeafNodesParallel behaves like IntersectingLeafNodes but,
// once the root's immediate children are known, explores each top-level
// subtree on its own goroutine when the tree is large enough to be worth
// it. ctx cancellation stops in-flight subtree walks early.
func (t *Tree) IntersectingLeafNodesParallel(ctx context.Context, segment geo.Segment) ([]LeafNodeID, error) {
	if len(t.nodes) < parallelFanoutThreshold {
		return t.IntersectingLeafNodes(segment), nil
	}

	subs := splitAtAntimeridian(segment)
	var mu sync.Mutex
	var result []LeafNodeID

	g, gctx := errgroup.WithContext(ctx)
	for _, sub := range subs {
		edge := Edge{A: sub.Start(), B: sub.End()}
		root := &t.nodes[t.root]
		for _, c := range root.children {
			if c == noChild {
				continue
			}
			c := c
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				var local []LeafNodeID
				t.collectIntersectingLeaves(c, edge, &local)
				if len(local) > 0 {
					mu.Lock()
					result = append(result, local...)
					mu.Unlock()
				}
				return nil
			})
		}
		// the root itself might be a leaf (tree too small to have
		// subdivided), in which case its own edges must be checked too.
		if root.leaf {
			t.collectIntersectingLeaves(t.root, edge, &result)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// SegmentsInRangeParallel behaves like SegmentsInRange but fans the
// top-level subtrees out across goroutines for large trees.
func (t *Tree) SegmentsInRangeParallel(ctx context.Context, rect poly.Bounds) ([]Edge, error) {
	if len(t.nodes) < parallelFanoutThreshold {
		return t.SegmentsInRange(rect), nil
	}

	var mu sync.Mutex
	seen := make(map[edgeKey]bool)
	var result []Edge

	g, gctx := errgroup.WithContext(ctx)
	root := &t.nodes[t.root]
	for _, c := range root.children {
		if c == noChild {
			continue
		}
		c := c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			var local []Edge
			localSeen := make(map[edgeKey]bool)
			t.collectInRange(c, rect, &local, localSeen)
			if len(local) > 0 {
				mu.Lock()
				for _, e := range local {
					k := keyOf(e)
					if !seen[k] {
						seen[k] = true
						result = append(result, e)
					}
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if root.leaf {
		t.collectInRange(t.root, rect, &result, seen)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
