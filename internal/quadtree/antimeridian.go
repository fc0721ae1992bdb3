package quadtree

import "github.com/shipnetsim/hvg/internal/geo"

// splitAtAntimeridian returns seg unchanged unless it logically crosses
// +-180 degrees longitude (its endpoints, normalized into [0,360), differ
// by more than 180 degrees), in which case it returns the two
// sub-segments produced by cutting at the crossing latitude: start->I at
// +180, and I' at -180->end, where I and I' share the interpolated
// latitude. All downstream quadtree operations call this first.
func splitAtAntimeridian(seg geo.Segment) []geo.Segment {
	a, b := seg.Start(), seg.End()

	aLon360 := normalize360(a.Lon)
	bLon360 := normalize360(b.Lon)
	if absDiff(aLon360, bLon360) <= 180 {
		return []geo.Segment{seg}
	}

	// Linear interpolation in longitude to the crossing latitude; adequate
	// at the quadtree's granularity per spec.md §4.4.
	var lon1, lon2 float64
	if a.Lon < 0 {
		lon1 = a.Lon + 360
	} else {
		lon1 = a.Lon
	}
	if b.Lon < 0 {
		lon2 = b.Lon + 360
	} else {
		lon2 = b.Lon
	}

	frac := (180 - lon1) / (lon2 - lon1)
	if lon2 < lon1 {
		frac = (lon1 - 180) / (lon1 - lon2)
	}
	lat := a.Lat + frac*(b.Lat-a.Lat)

	// iNeg is built as a literal because NewPoint normalizes -180 to +180.
	var iPos, iNeg geo.Point
	if a.Lon > 0 {
		iPos = geo.NewPoint(180, lat)
		iNeg = geo.Point{Lon: -180, Lat: lat}
		return []geo.Segment{
			geo.NewSegment(a, iPos),
			geo.NewSegment(iNeg, b),
		}
	}
	iNeg = geo.Point{Lon: -180, Lat: lat}
	iPos = geo.NewPoint(180, lat)
	return []geo.Segment{
		geo.NewSegment(a, iNeg),
		geo.NewSegment(iPos, b),
	}
}

func normalize360(lon float64) float64 {
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}
	return lon
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}
