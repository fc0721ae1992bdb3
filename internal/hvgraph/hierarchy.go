package hvgraph

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

// NumLevels is the number of levels in the hierarchy: L0 full-resolution
// plus L1-L3 increasingly simplified.
const NumLevels = 4

// Hierarchy owns the four GraphLevels and the manual-edge set the
// original implementation stores at this scope and applies only at
// query time (an Open Question resolved in favor of the source's
// behavior: manual edges are shared across every level, not per-level).
type Hierarchy struct {
	Levels [NumLevels]*GraphLevel

	manualMu sync.RWMutex
	manual   []manualEdge

	boundsOnce sync.Once
	minBound   geo.Point
	maxBound   geo.Point
}

type manualEdge struct {
	a, b geo.Point
}

// Build constructs all four levels in parallel: L1-L3 simplify, index,
// and build adjacency eagerly; L0 is indexed but its adjacency is left
// empty unless the caller later calls LoadAdjacencyCache or explicitly
// invokes L0's BuildAdjacency (level 0 adjacency is expensive, per the
// component design).
func Build(ctx context.Context, polygons []*poly.Polygon) (*Hierarchy, error) {
	h := &Hierarchy{}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < NumLevels; i++ {
		i := i
		g.Go(func() error {
			level, err := BuildGraphLevel(i, LevelTolerances[i], polygons)
			if err != nil {
				return err
			}
			if i != 0 {
				if err := level.BuildAdjacency(gctx); err != nil {
					return err
				}
			}
			h.Levels[i] = level
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h, nil
}

// AddManualEdge registers a as-always-visible segment across every
// level's oracle.
func (h *Hierarchy) AddManualEdge(a, b geo.Point) {
	h.manualMu.Lock()
	h.manual = append(h.manual, manualEdge{a, b})
	h.manualMu.Unlock()

	for _, l := range h.Levels {
		if l != nil {
			l.Oracle.AddManualEdge(a, b)
		}
	}
}

// RemoveManualEdge undoes a single AddManualEdge call across every level,
// leaving any other manual edges in place; used by the planner to retract
// a temporary antimeridian shortcut once a query finishes.
func (h *Hierarchy) RemoveManualEdge(a, b geo.Point) {
	h.manualMu.Lock()
	for i, m := range h.manual {
		if (m.a.Equal(a) && m.b.Equal(b)) || (m.a.Equal(b) && m.b.Equal(a)) {
			h.manual = append(h.manual[:i], h.manual[i+1:]...)
			break
		}
	}
	h.manualMu.Unlock()

	for _, l := range h.Levels {
		if l != nil {
			l.Oracle.RemoveManualEdge(a, b)
		}
	}
}

// ClearManualEdges removes every manual edge from every level.
func (h *Hierarchy) ClearManualEdges() {
	h.manualMu.Lock()
	h.manual = nil
	h.manualMu.Unlock()

	for _, l := range h.Levels {
		if l != nil {
			l.Oracle.ClearManualEdges()
		}
	}
}

// MapBounds returns the union bounding box of every level-0 polygon,
// computed once and cached.
func (h *Hierarchy) MapBounds() (geo.Point, geo.Point) {
	h.boundsOnce.Do(func() {
		b := poly.Bounds{}
		for _, p := range h.Levels[0].Polygons {
			b = b.Union(p.BoundingBox())
		}
		h.minBound = geo.NewPoint(b.MinLon, b.MinLat)
		h.maxBound = geo.NewPoint(b.MaxLon, b.MaxLat)
	})
	return h.minBound, h.maxBound
}
