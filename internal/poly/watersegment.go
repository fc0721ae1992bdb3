package poly

import (
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
)

// maxWaterSegmentSamples caps the sampling density isValidWaterSegment
// uses when probing for hole interiors, so a very long segment over a
// very small hole can't blow up the sample count.
const maxWaterSegmentSamples = 2000

// IsValidWaterSegment reports whether segment can be traversed by water
// without grazing through any hole: it is invalid iff a sampled interior
// point falls inside a hole, or the segment crosses a hole boundary at a
// non-vertex point.
func (p *Polygon) IsValidWaterSegment(segment geo.Segment) bool {
	for _, hole := range p.holes {
		holePoly := &Polygon{outer: hole}

		if segmentCrossesRingAtNonVertex(segment, hole) {
			return false
		}

		samples := sampleCount(segment.Length(), minHoleDiameter(hole))
		for i := 1; i < samples; i++ {
			t := float64(i) / float64(samples) * segment.Length()
			sp, err := segment.PointAtDistance(t, false)
			if err != nil {
				continue
			}
			if holePoly.IsPointInside(sp) {
				return false
			}
		}
	}
	return true
}

func sampleCount(segLength, holeDiameter float64) int {
	if holeDiameter <= 0 {
		return 2
	}
	n := int(math.Ceil(segLength / (0.1 * holeDiameter)))
	if n < 2 {
		n = 2
	}
	if n > maxWaterSegmentSamples {
		n = maxWaterSegmentSamples
	}
	return n
}

// minHoleDiameter approximates a hole's smallest extent as the shorter
// side of its bounding box, converted to meters.
func minHoleDiameter(hole []geo.Point) float64 {
	b := Bounds{MinLon: math.Inf(1), MaxLon: math.Inf(-1), MinLat: math.Inf(1), MaxLat: math.Inf(-1)}
	for _, pt := range hole {
		if pt.Lon < b.MinLon {
			b.MinLon = pt.Lon
		}
		if pt.Lon > b.MaxLon {
			b.MaxLon = pt.Lon
		}
		if pt.Lat < b.MinLat {
			b.MinLat = pt.Lat
		}
		if pt.Lat > b.MaxLat {
			b.MaxLat = pt.Lat
		}
	}
	corner1 := geo.NewPoint(b.MinLon, b.MinLat)
	corner2 := geo.NewPoint(b.MaxLon, b.MinLat)
	corner3 := geo.NewPoint(b.MinLon, b.MaxLat)
	w := corner1.Distance(corner2)
	h := corner1.Distance(corner3)
	return math.Min(w, h)
}

func segmentCrossesRingAtNonVertex(segment geo.Segment, ring []geo.Point) bool {
	for i := 0; i+1 < len(ring); i++ {
		edge := geo.NewSegment(ring[i], ring[i+1])
		if !segment.Intersects(edge, true) {
			continue
		}
		// Intersects with ignoreSharedEndpoints=true already excludes
		// touching only at a shared endpoint; any remaining intersection
		// is a genuine non-vertex crossing.
		return true
	}
	return false
}

// GetMaxClearWidth returns the sum of the minimum perpendicular distances
// from referenceSegment to the polygon boundary on each side, for a
// segment already known to lie inside the polygon. Used by the embedding
// simulator to estimate navigable width.
func (p *Polygon) GetMaxClearWidth(referenceSegment geo.Segment) float64 {
	outerClear := math.Inf(1)
	for i := 0; i+1 < len(p.outer); i++ {
		edge := geo.NewSegment(p.outer[i], p.outer[i+1])
		d := referenceSegment.PerpendicularDistance(edge.Start())
		if d2 := referenceSegment.PerpendicularDistance(edge.End()); d2 < d {
			d = d2
		}
		if d < outerClear {
			outerClear = d
		}
	}

	holesClear := math.Inf(1)
	for _, hole := range p.holes {
		for i := 0; i+1 < len(hole); i++ {
			edge := geo.NewSegment(hole[i], hole[i+1])
			d := referenceSegment.PerpendicularDistance(edge.Start())
			if d2 := referenceSegment.PerpendicularDistance(edge.End()); d2 < d {
				d = d2
			}
			if d < holesClear {
				holesClear = d
			}
		}
	}

	if math.IsInf(outerClear, 1) {
		outerClear = 0
	}
	if math.IsInf(holesClear, 1) {
		holesClear = 0
	}
	return outerClear + holesClear
}
