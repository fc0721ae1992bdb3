package visibility

import "github.com/shipnetsim/hvg/internal/geo"

// antimeridianCrossing reports whether the shortest path between a and b
// plausibly crosses +-180 degrees longitude.
func antimeridianCrossing(a, b geo.Point) bool {
	if (a.Lon > 0) == (b.Lon > 0) {
		return false
	}
	return abs(a.Lon)+abs(b.Lon) > 180
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// antimeridianSplit cuts seg into two sub-segments at the interpolated
// latitude where it crosses +-180, mirroring the quadtree package's own
// split so the two layers agree on where the cut falls.
func antimeridianSplit(seg geo.Segment) [2]geo.Segment {
	a, b := seg.Start(), seg.End()

	lon1, lon2 := a.Lon, b.Lon
	if lon1 < 0 {
		lon1 += 360
	}
	if lon2 < 0 {
		lon2 += 360
	}

	var frac float64
	if lon2 >= lon1 {
		frac = (180 - lon1) / (lon2 - lon1)
	} else {
		frac = (lon1 - 180) / (lon1 - lon2)
	}
	lat := a.Lat + frac*(b.Lat-a.Lat)

	// The -180 point is a literal because NewPoint normalizes -180 to +180.
	if a.Lon > 0 {
		return [2]geo.Segment{
			geo.NewSegment(a, geo.NewPoint(180, lat)),
			geo.NewSegment(geo.Point{Lon: -180, Lat: lat}, b),
		}
	}
	return [2]geo.Segment{
		geo.NewSegment(a, geo.Point{Lon: -180, Lat: lat}),
		geo.NewSegment(geo.NewPoint(180, lat), b),
	}
}
