package planner

import "github.com/shipnetsim/hvg/internal/geo"

// snapToWater returns p unchanged if it lies inside a navigable water
// polygon at the full-resolution level; otherwise it returns the
// nearest indexed vertex, the fallback used for a start/goal that falls
// on land or outside the mapped extent. Candidate polygons are narrowed
// via the level's coarse spatial index before the precise ring test.
func (p *Planner) snapToWater(point geo.Point) geo.Point {
	level0 := p.Hierarchy.Levels[0]
	for _, poly := range level0.PolygonsNear(point) {
		if poly.IsPointInside(point) {
			return point
		}
	}
	nearest, _, ok := level0.Tree.NearestVertex(point)
	if !ok {
		return point
	}
	return nearest
}
