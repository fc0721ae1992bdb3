// Package poly implements C3 (Polygon): an outer ring plus holes, with
// geodesic area/perimeter, antimeridian-aware point-in-polygon, and the
// water-segment validity tests the planner relies on to reject edges that
// graze through holes.
package poly

import (
	"math"

	"github.com/shipnetsim/hvg/internal/geo"
	"github.com/shipnetsim/hvg/internal/hvgerr"
)

// authalicRadius is the WGS84 authalic (equal-area) sphere radius in
// meters, used to scale the spherical-excess area formula so it matches
// the ellipsoid's true surface area to within ~0.1%.
const authalicRadius = 6371007.1809

// Polygon is an outer ring plus zero or more holes. Ring mutation clears
// the cached envelope and antimeridian flag; both are recomputed lazily on
// next access, per the explicit-invalidation redesign in spec.md §9.
type Polygon struct {
	ID    string
	outer []geo.Point
	holes [][]geo.Point

	envelope     *Bounds
	crossesAntim *bool
}

// NewPolygon builds a Polygon from an outer ring and holes. Rings are
// auto-closed (the last point is appended to equal the first) if not
// already closed, and validated: each ring must have at least 3 distinct,
// non-collinear vertices.
func NewPolygon(id string, outer []geo.Point, holes [][]geo.Point) (*Polygon, error) {
	outer = closeRing(outer)
	if err := validateRing(outer); err != nil {
		return nil, hvgerr.Wrap("poly.NewPolygon", hvgerr.InvalidGeometry, err)
	}

	closedHoles := make([][]geo.Point, len(holes))
	for i, h := range holes {
		h = closeRing(h)
		if err := validateRing(h); err != nil {
			return nil, hvgerr.Wrap("poly.NewPolygon", hvgerr.InvalidGeometry, err)
		}
		closedHoles[i] = h
	}

	return &Polygon{ID: id, outer: outer, holes: closedHoles}, nil
}

func closeRing(ring []geo.Point) []geo.Point {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first.Equal(last) {
		return ring
	}
	closed := make([]geo.Point, len(ring)+1)
	copy(closed, ring)
	closed[len(ring)] = first
	return closed
}

func validateRing(ring []geo.Point) error {
	// A closed ring of N distinct vertices has N+1 points.
	distinct := ring
	if len(ring) > 0 && ring[0].Equal(ring[len(ring)-1]) {
		distinct = ring[:len(ring)-1]
	}
	if len(distinct) < 3 {
		return errTooFewVertices
	}
	allCollinear := true
	for i := 2; i < len(distinct); i++ {
		if geo.OrientationOf(distinct[0], distinct[1], distinct[i]) != geo.Collinear {
			allCollinear = false
			break
		}
	}
	if allCollinear {
		return errDegenerateRing
	}
	return nil
}

var (
	errTooFewVertices = ringError("fewer than 3 distinct vertices")
	errDegenerateRing = ringError("all vertices collinear")
)

type ringError string

func (e ringError) Error() string { return string(e) }

// Outer returns the outer ring (first point repeated to close).
func (p *Polygon) Outer() []geo.Point { return p.outer }

// Holes returns the inner rings.
func (p *Polygon) Holes() [][]geo.Point { return p.holes }

// RingsContain reports whether v appears (within tolerance) as a vertex of
// the outer ring or any hole.
func (p *Polygon) RingsContain(v geo.Point) bool {
	for _, pt := range p.outer {
		if pt.Equal(v) {
			return true
		}
	}
	for _, hole := range p.holes {
		for _, pt := range hole {
			if pt.Equal(v) {
				return true
			}
		}
	}
	return false
}

// BoundingBox returns (and lazily caches) the polygon's axis-aligned
// envelope over the outer ring.
func (p *Polygon) BoundingBox() Bounds {
	if p.envelope != nil {
		return *p.envelope
	}
	b := Bounds{MinLon: math.Inf(1), MaxLon: math.Inf(-1), MinLat: math.Inf(1), MaxLat: math.Inf(-1)}
	for _, pt := range p.outer {
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
	p.envelope = &b
	return b
}

// CrossesAntimeridian reports (and lazily caches) whether any outer-ring
// edge spans more than 180 degrees of longitude, the signal that the
// polygon wraps the +-180 line and needs longitude-shifted handling.
func (p *Polygon) CrossesAntimeridian() bool {
	if p.crossesAntim != nil {
		return *p.crossesAntim
	}
	crosses := ringCrossesAntimeridian(p.outer)
	p.crossesAntim = &crosses
	return crosses
}

func ringCrossesAntimeridian(ring []geo.Point) bool {
	for i := 0; i+1 < len(ring); i++ {
		if math.Abs(ring[i+1].Lon-ring[i].Lon) > 180 {
			return true
		}
	}
	return false
}

// invalidate clears cached envelope/antimeridian state; called by any
// future ring-mutating operation (there are none yet, but kept explicit
// per the "invalidation must be explicit, not silent" redesign note).
func (p *Polygon) invalidate() {
	p.envelope = nil
	p.crossesAntim = nil
}

// Perimeter returns the outer ring's geodesic perimeter in meters.
func (p *Polygon) Perimeter() float64 {
	return ringPerimeter(p.outer)
}

func ringPerimeter(ring []geo.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(ring); i++ {
		total += ring[i].Distance(ring[i+1])
	}
	return total
}

// Area returns the geodesic area in square meters: the outer ring's area
// minus the area of every hole. Computed via the spherical-excess formula
// scaled to the WGS84 authalic radius, shifting longitudes into [0,360)
// first when the polygon crosses the antimeridian.
func (p *Polygon) Area() float64 {
	area := ringArea(p.outer, p.CrossesAntimeridian())
	for _, h := range p.holes {
		area -= ringArea(h, ringCrossesAntimeridian(h))
	}
	if area < 0 {
		area = -area
	}
	return area
}

// ringArea implements the spherical-excess polygon area formula: for a
// ring of vertices (lon_i, lat_i), area = R^2/2 * sum((lon_{i+1}-lon_i) in
// radians * (2 + sin(lat_i) + sin(lat_{i+1}))), which is exact on a
// sphere and a good approximation on the WGS84 ellipsoid when R is the
// authalic radius.
func ringArea(ring []geo.Point, shiftAntimeridian bool) float64 {
	if len(ring) < 4 {
		return 0
	}
	lons := make([]float64, len(ring))
	for i, pt := range ring {
		lon := pt.Lon
		if shiftAntimeridian && lon < 0 {
			lon += 360
		}
		lons[i] = lon * math.Pi / 180
	}
	sum := 0.0
	for i := 0; i+1 < len(ring); i++ {
		lat1 := ring[i].Lat * math.Pi / 180
		lat2 := ring[i+1].Lat * math.Pi / 180
		sum += (lons[i+1] - lons[i]) * (2 + math.Sin(lat1) + math.Sin(lat2))
	}
	return sum * authalicRadius * authalicRadius / 2
}

// IsPointInside reports whether point is strictly inside the outer ring
// and not inside any hole, via ray casting. If the polygon crosses the
// antimeridian, both the point and every ring's longitudes are shifted
// into [0,360) first so the ray-casting edges never wrap.
func (p *Polygon) IsPointInside(point geo.Point) bool {
	shift := p.CrossesAntimeridian()
	if !rayCast(p.outer, point, shift) {
		return false
	}
	for _, hole := range p.holes {
		if rayCast(hole, point, shift || ringCrossesAntimeridian(hole)) {
			return false
		}
	}
	return true
}

func rayCast(ring []geo.Point, point geo.Point, shift bool) bool {
	px, py := point.Lon, point.Lat
	if shift && px < 0 {
		px += 360
	}

	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if shift {
			if xi < 0 {
				xi += 360
			}
			if xj < 0 {
				xj += 360
			}
		}
		if (yi > py) != (yj > py) {
			xCross := xi + (py-yi)/(yj-yi)*(xj-xi)
			if px < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
