// Package quadtree implements C4: a 4-ary spatial index over polygon edges,
// antimeridian-aware, arena-allocated so nodes are addressed by index
// rather than pointer (spec.md §9's replacement for the original's
// parent-pointer tree with manual delete).
package quadtree

import (
	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/poly"
)

// DefaultMaxSegmentsPerNode is the subdivision threshold from the data
// model (MAX_SEGMENTS_PER_NODE).
const DefaultMaxSegmentsPerNode = 100

// BoundaryTolerance is the quadtree boundary tolerance in degrees from the
// data model's Tolerances section.
const BoundaryTolerance = 0.1

// Edge is a polygon boundary edge indexed by the quadtree: two endpoints
// plus the id of the polygon it belongs to, so VisibilityOracle and
// GraphLevel can attribute a blocking edge back to its owner.
type Edge struct {
	A, B      geo.Point
	PolygonID string
}

// Segment returns the geo.Segment for this edge.
func (e Edge) Segment() geo.Segment {
	return geo.NewSegment(e.A, e.B)
}

// node is one arena slot: an axis-aligned rectangle, the edges stored at
// this node (duplicated across every leaf whose rectangle they touch, or
// retained here if they fit no single child), up to four children
// indexed NW=0, NE=1, SW=2, SE=3, and a leaf flag.
type node struct {
	bounds   poly.Bounds
	edges    []Edge
	children [4]int32 // -1 when absent
	leaf     bool
}

const noChild int32 = -1

// Tree is the arena-allocated quadtree: nodes are addressed by index into
// the nodes slice, which owns their lifetime. Clear frees the arena
// wholesale rather than walking parent pointers.
type Tree struct {
	nodes          []node
	root           int32
	maxPerNode     int
	stuckAtParent  int
}

// Stats reports index-quality diagnostics recovered from the original
// implementation's "stuck at parent" bookkeeping.
type Stats struct {
	NodeCount     int
	LeafCount     int
	MaxDepth      int
	StuckAtParent int
}

// New creates an empty tree covering bounds, with the given subdivision
// threshold (DefaultMaxSegmentsPerNode if maxPerNode <= 0).
func New(bounds poly.Bounds, maxPerNode int) *Tree {
	if maxPerNode <= 0 {
		maxPerNode = DefaultMaxSegmentsPerNode
	}
	t := &Tree{maxPerNode: maxPerNode}
	t.root = t.newNode(bounds)
	return t
}

func (t *Tree) newNode(b poly.Bounds) int32 {
	t.nodes = append(t.nodes, node{bounds: b, leaf: true, children: [4]int32{noChild, noChild, noChild, noChild}})
	return int32(len(t.nodes) - 1)
}

// Clear frees the arena and reinitializes the tree with the same root
// bounds and subdivision threshold.
func (t *Tree) Clear() {
	bounds := t.nodes[t.root].bounds
	maxPerNode := t.maxPerNode
	t.nodes = nil
	t.stuckAtParent = 0
	t.maxPerNode = maxPerNode
	t.root = t.newNode(bounds)
}

// Bounds returns the root rectangle.
func (t *Tree) Bounds() poly.Bounds {
	return t.nodes[t.root].bounds
}

// Stats walks the tree and reports diagnostics.
func (t *Tree) Stats() Stats {
	s := Stats{NodeCount: len(t.nodes), StuckAtParent: t.stuckAtParent}
	var walk func(idx int32, depth int)
	walk = func(idx int32, depth int) {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		n := &t.nodes[idx]
		if n.leaf {
			s.LeafCount++
			return
		}
		for _, c := range n.children {
			if c != noChild {
				walk(c, depth+1)
			}
		}
	}
	walk(t.root, 0)
	return s
}
