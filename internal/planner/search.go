package planner

import (
	"context"
	"unsafe"

	"github.com/shipnetsim/hvg/internal/corridor"
	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgraph"
)

// searchFullLevel runs A* over level's entire adjacency, with start and
// goal wired in as two extra nodes connected to every vertex visible
// from them via getVisibleNodesForPoint. Returns ok=false if no route
// exists or ctx is cancelled mid-search.
func (p *Planner) searchFullLevel(ctx context.Context, level *hvgraph.GraphLevel, start, goal geo.Point) ([]geo.Point, bool) {
	numVertices := len(level.Vertices)
	startID := numVertices
	goalID := numVertices + 1

	startNeighbors := p.visibleVertexIDs(ctx, level, start)
	goalNeighbors := p.visibleVertexIDs(ctx, level, goal)
	startSeesGoal := level.Oracle.IsVisible(ctx, start, goal)

	startSet := toIntSet(startNeighbors)
	goalSet := toIntSet(goalNeighbors)

	neighborsOf := func(id int) []int {
		switch id {
		case startID:
			out := append([]int{}, startNeighbors...)
			if startSeesGoal {
				out = append(out, goalID)
			}
			return out
		case goalID:
			out := append([]int{}, goalNeighbors...)
			if startSeesGoal {
				out = append(out, startID)
			}
			return out
		default:
			out := level.NeighborsOf(id)
			if startSet[id] {
				out = append(out, startID)
			}
			if goalSet[id] {
				out = append(out, goalID)
			}
			return out
		}
	}
	pointOf := func(id int) geo.Point {
		switch id {
		case startID:
			return start
		case goalID:
			return goal
		default:
			return level.Vertices[id]
		}
	}

	ids, ok := astarSearch(ctx, startID, goalID, neighborsOf, pointOf)
	if !ok {
		return nil, false
	}
	return idsToPoints(ids, pointOf), true
}

// visibleVertexIDs returns the indices of level.Vertices visible from p,
// via the Oracle's VisibleVerticesFrom so repeated calls against the same
// level's full vertex set reuse the cached result (level's address is a
// stable candidate-set identity since Vertices never changes after build).
func (p *Planner) visibleVertexIDs(ctx context.Context, level *hvgraph.GraphLevel, point geo.Point) []int {
	candidateSetID := uintptr(unsafe.Pointer(level))
	visible := level.Oracle.VisibleVerticesFrom(ctx, point, level.Vertices, candidateSetID)

	out := make([]int, 0, len(visible))
	for _, v := range visible {
		if id, ok := level.VertexIndexOf(v); ok {
			out = append(out, id)
		}
	}
	return out
}

func toIntSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func idsToPoints(ids []int, pointOf func(int) geo.Point) []geo.Point {
	points := make([]geo.Point, len(ids))
	for i, id := range ids {
		points[i] = pointOf(id)
	}
	return points
}

// refineWithCorridor builds a Corridor around coursePath on the next
// finer level, precomputes its local visibility adjacency, and runs A*
// restricted to that corridor between the actual start/goal. Returns
// ok=false if the corridor has no room for start/goal, or no route is
// found within it, signalling the caller to fall back to a direct
// full-resolution search.
func (p *Planner) refineWithCorridor(ctx context.Context, coursePath []geo.Point, level *hvgraph.GraphLevel, start, goal geo.Point) ([]geo.Point, bool) {
	c := corridor.Build(coursePath, level)
	c.SetEndpoints(start, goal)
	if err := c.Precompute(ctx); err != nil {
		return nil, false
	}

	startID, goalID := c.StartID(), c.GoalID()
	if startID == -1 || goalID == -1 {
		return nil, false
	}

	ids, ok := astarSearch(ctx, startID, goalID, c.Neighbors, c.PointOf)
	if !ok {
		return nil, false
	}
	return idsToPoints(ids, c.PointOf), true
}
