// Package spatialindex wraps a coarse rtreego R-tree over polygon bounding
// boxes, queried to narrow the candidate polygons for a point before any
// exact ring test runs.
package spatialindex

import (
	"github.com/dhconnelly/rtreego"

	"github.com/shipnetsim/hvg/internal/poly"
)

// polygonDims is the R-tree dimensionality: longitude and latitude.
const polygonDims = 2

// DefaultMinChildren and DefaultMaxChildren mirror the branching factor
// used for chart indexing; landmass counts in a typical dataset are far
// smaller than ENC chart counts, but the same factor keeps node fanout
// reasonable without retuning.
const (
	DefaultMinChildren = 5
	DefaultMaxChildren = 20
)

// minRectSide is a small positive side length substituted for a
// degenerate (zero-width or zero-height) bounds, since rtreego.NewRect
// rejects non-positive lengths.
const minRectSide = 1e-9

// Entry is one polygon's coarse envelope, carrying enough identity for a
// caller to fetch the full poly.Polygon.
type Entry struct {
	PolygonID string
	Bounds    poly.Bounds
}

// Bounds implements rtreego.Spatial.
func (e Entry) Bounds() rtreego.Rect {
	point := rtreego.Point{e.Bounds.MinLon, e.Bounds.MinLat}
	lengths := []float64{
		maxf(e.Bounds.Width(), minRectSide),
		maxf(e.Bounds.Height(), minRectSide),
	}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		rect, _ = rtreego.NewRect(point, []float64{minRectSide, minRectSide})
	}
	return rect
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Index is a coarse spatial index over polygon envelopes.
type Index struct {
	tree    *rtreego.Rtree
	entries map[string]Entry
}

// Build constructs an Index from a set of polygons, one Entry per polygon
// keyed on its bounding box.
func Build(polygons []*poly.Polygon) *Index {
	tree := rtreego.NewTree(polygonDims, DefaultMinChildren, DefaultMaxChildren)
	entries := make(map[string]Entry, len(polygons))
	for _, p := range polygons {
		e := Entry{PolygonID: p.ID, Bounds: p.BoundingBox()}
		tree.Insert(e)
		entries[p.ID] = e
	}
	return &Index{tree: tree, entries: entries}
}

// Query returns every polygon entry whose envelope intersects rect.
func (idx *Index) Query(rect poly.Bounds) []Entry {
	point := rtreego.Point{rect.MinLon, rect.MinLat}
	lengths := []float64{
		maxf(rect.Width(), minRectSide),
		maxf(rect.Height(), minRectSide),
	}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	spatials := idx.tree.SearchIntersect(queryRect)
	result := make([]Entry, 0, len(spatials))
	for _, s := range spatials {
		result = append(result, s.(Entry))
	}
	return result
}

// NearestK returns the k entries whose envelopes are nearest to the
// point (lon, lat), using rtreego's own nearest-neighbor search.
func (idx *Index) NearestK(lon, lat float64, k int) []Entry {
	p := rtreego.Point{lon, lat}
	spatials := idx.tree.NearestNeighbors(k, p)
	result := make([]Entry, 0, len(spatials))
	for _, s := range spatials {
		if s == nil {
			continue
		}
		result = append(result, s.(Entry))
	}
	return result
}

// PolygonIDs returns every indexed polygon id, in no particular order.
func (idx *Index) PolygonIDs() []string {
	ids := make([]string, 0, len(idx.entries))
	for id := range idx.entries {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of indexed polygons.
func (idx *Index) Count() int {
	return len(idx.entries)
}
