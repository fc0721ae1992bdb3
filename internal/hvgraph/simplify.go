package hvgraph

import "github.com/shipnetsim/hvg/internal/geo"

// douglasPeucker simplifies a closed ring (first point repeated at the
// end) to within toleranceMeters, treating the ring as an open polyline
// between its two endpoints (which are identical for a closed ring, so
// the algorithm degenerates gracefully and always keeps both).
func douglasPeucker(ring []geo.Point, toleranceMeters float64) []geo.Point {
	if len(ring) < 3 || toleranceMeters <= 0 {
		return ring
	}
	keep := make([]bool, len(ring))
	keep[0] = true
	keep[len(ring)-1] = true
	dpRecurse(ring, 0, len(ring)-1, toleranceMeters, keep)

	result := make([]geo.Point, 0, len(ring))
	for i, k := range keep {
		if k {
			result = append(result, ring[i])
		}
	}
	return result
}

func dpRecurse(ring []geo.Point, start, end int, tol float64, keep []bool) {
	if end <= start+1 {
		return
	}
	seg := geo.NewSegment(ring[start], ring[end])
	maxDist := -1.0
	maxIdx := -1
	for i := start + 1; i < end; i++ {
		d := seg.PerpendicularDistance(ring[i])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tol || maxIdx < 0 {
		return
	}
	keep[maxIdx] = true
	dpRecurse(ring, start, maxIdx, tol, keep)
	dpRecurse(ring, maxIdx, end, tol, keep)
}
