// Package hvg is the public facade over the hierarchical visibility-graph
// pathfinder: it wraps internal/geo, internal/poly, internal/hvgraph,
// internal/planner, and internal/smoother behind the documented types an
// embedding ship-traffic simulator imports, the same shape as the
// teacher's pkg/s57 wrapping internal/parser.
package hvg

import (
	"context"
	"log/slog"
	"time"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
	"github.com/shipnetsim/hvg/internal/hvgraph"
	"github.com/shipnetsim/hvg/internal/planner"
	"github.com/shipnetsim/hvg/internal/poly"
	"github.com/shipnetsim/hvg/internal/smoother"
)

// Point is a geodetic point on the WGS84 ellipsoid. See internal/geo for
// the distance/azimuth/destination implementations this wraps.
type Point = geo.Point

// NewPoint builds a Point, normalizing longitude and clamping latitude.
func NewPoint(lon, lat float64) Point { return geo.NewPoint(lon, lat) }

// Segment is a geodesic segment between two Points.
type Segment = geo.Segment

// PolygonSpec describes one obstacle polygon as raw rings: the first ring
// is the outer boundary, any further rings are holes. Coordinates are
// (lon, lat) pairs in WGS84 degrees. This is the shape the embedding
// application's shapefile/TIFF loader (an explicit non-goal of this
// module) is expected to produce.
type PolygonSpec struct {
	ID    string
	Outer []Point
	Holes [][]Point
}

// ErrorKind classifies a returned error; see internal/hvgerr for the
// full taxonomy.
type ErrorKind = hvgerr.Kind

// Error kind constants, re-exported for callers using errors.Is-style
// classification via IsKind.
const (
	KindInternal        = hvgerr.Internal
	KindInvalidGeometry = hvgerr.InvalidGeometry
	KindInvalidArgument = hvgerr.InvalidArgument
	KindOutOfRange      = hvgerr.OutOfRange
	KindNoPath          = hvgerr.NoPath
	KindCancelled       = hvgerr.Cancelled
	KindIO              = hvgerr.IO
	KindIncompatible    = hvgerr.Incompatible
)

// IsKind reports whether err is an hvg error of the given kind.
func IsKind(err error, kind ErrorKind) bool { return hvgerr.Is(err, kind) }

// Result is a planned route: the ordered points plus the GeoSegment
// connecting each consecutive pair. Found reports whether the route is
// usable (len(Points) >= 2).
type Result = planner.PlannerResult

// ProgressEvent reports progress through a multi-waypoint query.
type ProgressEvent = planner.ProgressEvent

// ProgressFunc receives ProgressEvents during FindPathMultiWaypoint.
type ProgressFunc = planner.ProgressFunc

// HierarchyOptions configures BuildHierarchy, following the teacher's
// Options/DefaultOptions constructor pattern.
type HierarchyOptions struct {
	// Logger receives Info-level messages for the build, level-0 adjacency
	// and cache operations, plus Warn/Error records on failure; defaults
	// to slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultHierarchyOptions returns zero-value tuning (nil Logger, which
// resolves to slog.Default() at use).
func DefaultHierarchyOptions() HierarchyOptions {
	return HierarchyOptions{}
}

func (o HierarchyOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Hierarchy owns the four-level visibility graph built from a polygon
// set. A Hierarchy is immutable after construction except for the
// manual-edge set and an optionally loaded level-0 adjacency cache; it
// is safe for concurrent Planner queries.
type Hierarchy struct {
	inner *hvgraph.Hierarchy
	log   *slog.Logger
}

// BuildHierarchy converts specs into internal polygons and builds all
// four graph levels (L1-L3 adjacency eagerly; L0 adjacency deferred to
// LoadAdjacencyCache or BuildLevel0Adjacency). Returns InvalidGeometry if
// any polygon ring is degenerate.
func BuildHierarchy(ctx context.Context, specs []PolygonSpec, opts HierarchyOptions) (*Hierarchy, error) {
	log := opts.logger()
	started := time.Now()
	log.Info("hvg: building hierarchy", "polygons", len(specs))

	polygons := make([]*poly.Polygon, 0, len(specs))
	for _, s := range specs {
		p, err := poly.NewPolygon(s.ID, s.Outer, s.Holes)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, p)
	}

	inner, err := hvgraph.Build(ctx, polygons)
	if err != nil {
		log.Error("hvg: hierarchy build failed", "err", err)
		return nil, err
	}

	log.Info("hvg: hierarchy built", "elapsed", time.Since(started))
	return &Hierarchy{inner: inner, log: log}, nil
}

// BuildLevel0Adjacency computes the full-resolution level's adjacency
// from scratch; expensive, intended to be called once (then optionally
// persisted via SaveAdjacencyCache) or skipped in favor of
// LoadAdjacencyCache.
func (h *Hierarchy) BuildLevel0Adjacency(ctx context.Context) error {
	started := time.Now()
	h.log.Info("hvg: building level-0 adjacency")
	err := h.inner.Levels[0].BuildAdjacency(ctx)
	if err != nil {
		h.log.Error("hvg: level-0 adjacency build failed", "err", err)
		return err
	}
	h.log.Info("hvg: level-0 adjacency built", "elapsed", time.Since(started))
	return nil
}

// LoadAdjacencyCache loads a previously saved level-0 adjacency cache
// from path, skipping a full rebuild when the polygon set still matches.
// A hash mismatch or read error is returned as an Incompatible or IO
// hvgerr.Error and leaves level 0 untouched; the caller should fall back
// to BuildLevel0Adjacency.
func (h *Hierarchy) LoadAdjacencyCache(path string) error {
	err := h.inner.LoadAdjacencyCache(path)
	if err != nil {
		h.log.Warn("hvg: adjacency cache load failed, rebuild required", "path", path, "err", err)
		return err
	}
	h.log.Info("hvg: adjacency cache loaded", "path", path)
	return nil
}

// SaveAdjacencyCache writes the current level-0 adjacency to path.
func (h *Hierarchy) SaveAdjacencyCache(path string) error {
	if err := h.inner.SaveAdjacencyCache(path); err != nil {
		h.log.Error("hvg: adjacency cache save failed", "path", path, "err", err)
		return err
	}
	h.log.Info("hvg: adjacency cache saved", "path", path)
	return nil
}

// AddManualEdge registers a segment between a and b as always visible
// across every level, for wrap-around points, port-approach channels, or
// operator overrides.
func (h *Hierarchy) AddManualEdge(a, b Point) { h.inner.AddManualEdge(a, b) }

// RemoveManualEdge undoes a single AddManualEdge call.
func (h *Hierarchy) RemoveManualEdge(a, b Point) { h.inner.RemoveManualEdge(a, b) }

// ClearManualEdges removes every manual edge from every level.
func (h *Hierarchy) ClearManualEdges() { h.inner.ClearManualEdges() }

// MapBounds returns the union bounding box of every level-0 polygon.
func (h *Hierarchy) MapBounds() (min, max Point) { return h.inner.MapBounds() }

// PlannerOptions configures Planner behavior.
type PlannerOptions struct {
	// Logger receives Debug-level query timing; defaults to
	// slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultPlannerOptions returns zero-value tuning.
func DefaultPlannerOptions() PlannerOptions { return PlannerOptions{} }

// Planner finds routes over a Hierarchy via hierarchical A*. A Planner
// holds no per-query state and is safe for concurrent use.
type Planner struct {
	inner *planner.Planner
	log   *slog.Logger
}

// NewPlanner builds a Planner over h.
func NewPlanner(h *Hierarchy, opts PlannerOptions) *Planner {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Planner{inner: planner.New(h.inner), log: log}
}

// FindPath finds a route from start to goal, snapping either endpoint to
// the nearest water vertex first if it isn't already inside a navigable
// polygon. An empty, Found()==false Result (with a nil error) means no
// route exists, or the context was cancelled mid-search.
func (p *Planner) FindPath(ctx context.Context, start, goal Point) (Result, error) {
	started := time.Now()
	result, err := p.inner.FindPath(ctx, start, goal)
	p.log.Debug("hvg: query finished", "found", result.Found(), "elapsed", time.Since(started))
	return result, err
}

// FindPathMultiWaypoint plans n-1 legs through an ordered waypoint list
// and stitches them into one Result, invoking progress after each leg.
func (p *Planner) FindPathMultiWaypoint(ctx context.Context, waypoints []Point, progress ProgressFunc) (Result, error) {
	return p.inner.FindPathMultiWaypoint(ctx, waypoints, progress)
}

// SmootherOptions configures PathSmoother corner replacement.
type SmootherOptions = smoother.Options

// DefaultSmootherOptions returns the smoother's default tuning.
func DefaultSmootherOptions() SmootherOptions { return smoother.DefaultOptions() }

// Smooth replaces sharp interior corners in result with Dubins-style
// tangent arcs sized to opts.TurningRadiusMeters, skipping ports and
// shallow turns.
func Smooth(result Result, opts SmootherOptions) Result {
	return smoother.Smooth(result, opts)
}
