package planner

import (
	"container/heap"
	"context"

	"github.com/shipnetsim/hvg/internal/geo"
)

// graphNode is an A* open-set entry. Ties on f-cost break on lower g
// first, then on lower node id, so concurrent queries over an immutable
// graph are reproducible.
type graphNode struct {
	id     int
	g, f   float64
	index  int // heap index, maintained by container/heap
}

type openHeap []*graphNode

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g < h[j].g
	}
	return h[i].id < h[j].id
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x interface{}) {
	n := x.(*graphNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// astarSearch runs A* over a graph described by neighborsOf/pointOf,
// from startID to goalID, returning the sequence of node ids on the
// shortest path found (inclusive of both endpoints) or ok=false if no
// path exists or ctx is cancelled. Reopening a closed node is permitted
// when a strictly lower g is found, since dynamic start/goal edges can
// break strict consistency on an otherwise-consistent polygon-adjacency
// graph.
func astarSearch(ctx context.Context, startID, goalID int, neighborsOf func(int) []int, pointOf func(int) geo.Point) ([]int, bool) {
	goalPoint := pointOf(goalID)
	h := func(id int) float64 { return pointOf(id).Distance(goalPoint) }

	gScore := map[int]float64{startID: 0}
	cameFrom := map[int]int{}
	closed := map[int]bool{}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &graphNode{id: startID, g: 0, f: h(startID)})

	inOpen := map[int]*graphNode{startID: (*open)[0]}

	for open.Len() > 0 {
		if ctx.Err() != nil {
			return nil, false
		}

		current := heap.Pop(open).(*graphNode)
		delete(inOpen, current.id)

		if current.id == goalID {
			return reconstructPath(cameFrom, startID, goalID), true
		}
		if closed[current.id] && current.g > gScore[current.id] {
			continue
		}
		closed[current.id] = true

		currentPoint := pointOf(current.id)
		for _, neighborID := range neighborsOf(current.id) {
			if neighborID == current.id {
				continue
			}
			tentativeG := current.g + currentPoint.Distance(pointOf(neighborID))

			best, known := gScore[neighborID]
			if known && tentativeG >= best {
				continue
			}

			gScore[neighborID] = tentativeG
			cameFrom[neighborID] = current.id
			f := tentativeG + h(neighborID)

			if node, ok := inOpen[neighborID]; ok {
				node.g, node.f = tentativeG, f
				heap.Fix(open, node.index)
			} else {
				node := &graphNode{id: neighborID, g: tentativeG, f: f}
				heap.Push(open, node)
				inOpen[neighborID] = node
			}
			delete(closed, neighborID)
		}
	}
	return nil, false
}

func reconstructPath(cameFrom map[int]int, startID, goalID int) []int {
	path := []int{goalID}
	current := goalID
	for current != startID {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
