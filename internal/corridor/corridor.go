// Package corridor builds the geographic box and local adjacency used to
// refine a coarse path onto the next finer graph level.
package corridor

import (
	"context"
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgraph"
	"github.com/shipnetsim/hvg/internal/poly"
)

// PortalZoneDegrees and PortalLatTolerance are the corridor expansion
// margins; PortalLatTolerance is reduced near the poles since a degree
// of longitude there spans far less ground distance than a degree of
// latitude.
const (
	PortalZoneDegrees    = 3.0
	PortalLatTolerance   = 1.0
	poleCorrectionLat    = 60.0
	poleCorrectionFactor = 0.5
)

// Corridor is a geographic box around a coarse path plus, once Precompute
// has run, a local vertex set and adjacency restricted to members inside
// that box (+ the current start/goal).
type Corridor struct {
	Bounds poly.Bounds

	level *hvgraph.GraphLevel

	// localIndex maps a finer-level vertex id to its position in
	// localVertices/adjacency.
	localIndex    map[int]int
	localVertices []int // finer-level vertex ids
	adjacency     [][]int

	startID, goalID           int // local ids, -1 if absent
	startPoint, goalPoint     geo.Point
	hasStart, hasGoal         bool
}

// Build computes the bounding box of coursePath, expands it by the
// portal margins (pole-corrected), and collects every vertex of level
// whose coordinates fall inside the expanded box.
func Build(coursePath []geo.Point, level *hvgraph.GraphLevel) *Corridor {
	b := poly.Bounds{MinLon: math.Inf(1), MaxLon: math.Inf(-1), MinLat: math.Inf(1), MaxLat: math.Inf(-1)}
	for _, p := range coursePath {
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
	}

	maxAbsLat := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	latMargin := PortalLatTolerance
	if maxAbsLat > poleCorrectionLat {
		latMargin *= poleCorrectionFactor
	}

	expanded := poly.Bounds{
		MinLon: b.MinLon - PortalZoneDegrees, MaxLon: b.MaxLon + PortalZoneDegrees,
		MinLat: b.MinLat - latMargin, MaxLat: b.MaxLat + latMargin,
	}

	c := &Corridor{
		Bounds:     expanded,
		level:      level,
		localIndex: make(map[int]int),
		startID:    -1,
		goalID:     -1,
	}

	for i, v := range level.Vertices {
		if expanded.Contains(v.Lon, v.Lat) {
			c.localIndex[i] = len(c.localVertices)
			c.localVertices = append(c.localVertices, i)
		}
	}
	c.adjacency = make([][]int, len(c.localVertices))
	return c
}

// SetEndpoints records the effective start/goal points used by this
// refinement step; they become graph nodes once Precompute runs if they
// fall inside the corridor.
func (c *Corridor) SetEndpoints(start, goal geo.Point) {
	c.startPoint, c.hasStart = start, true
	c.goalPoint, c.hasGoal = goal, true
}

// Precompute computes pairwise visibility among corridor members (and
// the start/goal, if set) using the finer level's VisibilityOracle,
// producing a sparse local graph suitable for A*.
func (c *Corridor) Precompute(ctx context.Context) error {
	for i, vi := range c.localVertices {
		pi := c.level.Vertices[vi]
		for j := i + 1; j < len(c.localVertices); j++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			vj := c.localVertices[j]
			pj := c.level.Vertices[vj]
			if !c.level.Oracle.IsVisible(ctx, pi, pj) {
				continue
			}
			c.adjacency[i] = append(c.adjacency[i], j)
			c.adjacency[j] = append(c.adjacency[j], i)
		}
	}

	if c.hasStart && c.Bounds.Contains(c.startPoint.Lon, c.startPoint.Lat) {
		c.startID = c.addProxy(ctx, c.startPoint)
	}
	if c.hasGoal && c.Bounds.Contains(c.goalPoint.Lon, c.goalPoint.Lat) {
		c.goalID = c.addProxy(ctx, c.goalPoint)
	}
	return nil
}

// addProxy appends a synthetic local node for p, wired to every corridor
// vertex visible from it, and returns its local id.
func (c *Corridor) addProxy(ctx context.Context, p geo.Point) int {
	id := len(c.adjacency)
	c.adjacency = append(c.adjacency, nil)
	for i, vi := range c.localVertices {
		if ctx.Err() != nil {
			break
		}
		pi := c.level.Vertices[vi]
		if c.level.Oracle.IsVisible(ctx, p, pi) {
			c.adjacency[id] = append(c.adjacency[id], i)
			c.adjacency[i] = append(c.adjacency[i], id)
		}
	}
	return id
}

// LocalVertexID returns the corridor-local id for a finer-level vertex
// id, if that vertex is inside the corridor.
func (c *Corridor) LocalVertexID(levelVertexID int) (int, bool) {
	id, ok := c.localIndex[levelVertexID]
	return id, ok
}

// LevelVertexID returns the finer-level vertex id for a corridor-local
// id (false for a synthetic start/goal proxy, which has no level id).
func (c *Corridor) LevelVertexID(localID int) (int, bool) {
	if localID < len(c.localVertices) {
		return c.localVertices[localID], true
	}
	return 0, false
}

// StartID and GoalID return the local id of the proxy start/goal node,
// or -1 if no proxy was added (the endpoint fell outside the corridor).
func (c *Corridor) StartID() int { return c.startID }
func (c *Corridor) GoalID() int  { return c.goalID }

// Neighbors returns the corridor-local adjacency list for localID.
func (c *Corridor) Neighbors(localID int) []int {
	return c.adjacency[localID]
}

// PointOf returns the geographic point for a corridor-local id.
func (c *Corridor) PointOf(localID int) geo.Point {
	switch {
	case localID == c.startID && c.hasStart:
		return c.startPoint
	case localID == c.goalID && c.hasGoal:
		return c.goalPoint
	default:
		return c.level.Vertices[c.localVertices[localID]]
	}
}

// Size returns the number of local nodes, including any proxies.
func (c *Corridor) Size() int {
	return len(c.adjacency)
}
