// Package geo implements C1 (GeoPoint) and C2 (GeoSegment): geodetic points
// and geodesic segments on the WGS84 ellipsoid, grounded on the Karney
// geodesic algorithms vendored in internal/geo/ellipsoid.
package geo

import (
	"math"

	"github.com/shipnetsim/hvg/internal/geo/ellipsoid"
)

// EqualityToleranceMeters is the default distance below which two Points
// compare equal, per the data model's point-equality tolerance.
const EqualityToleranceMeters = 0.1

// PortInfo marks a Point as a port the planner must not smooth through.
type PortInfo struct {
	DwellSeconds float64
}

// Point is a geodetic point on the WGS84 ellipsoid. It is a value type:
// vertex identity in the graph layers is tracked by dense integer id, not
// by pointer, so Point can be freely copied and compared.
type Point struct {
	Lon  float64
	Lat  float64
	ID   string
	Port *PortInfo
}

// NewPoint normalizes lon into (-180, 180] and clamps lat into [-90, 90],
// per the data model invariant that setters always apply these corrections.
func NewPoint(lon, lat float64) Point {
	return Point{Lon: normalizeLon(lon), Lat: clampLat(lat)}
}

// WithID returns a copy of p carrying the given identifier.
func (p Point) WithID(id string) Point {
	p.ID = id
	return p
}

// WithPort returns a copy of p marked as a port with the given dwell time.
func (p Point) WithPort(dwellSeconds float64) Point {
	p.Port = &PortInfo{DwellSeconds: dwellSeconds}
	return p
}

// IsPort reports whether p carries port metadata with a positive dwell time.
func (p Point) IsPort() bool {
	return p.Port != nil && p.Port.DwellSeconds > 0
}

func normalizeLon(lon float64) float64 {
	for lon <= -180 {
		lon += 360
	}
	for lon > 180 {
		lon -= 360
	}
	return lon
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// azNormalize maps an azimuth in radians (from ellipsoid.Inverse/Forward,
// which may return negative or >2pi values) into degrees in [0, 360).
func azNormalize(rad float64) float64 {
	deg := math.Mod(toDeg(rad), 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Distance returns the geodesic distance in meters between p and other.
func (p Point) Distance(other Point) float64 {
	s12, _, _ := ellipsoid.Inverse(toRad(p.Lat), toRad(p.Lon), toRad(other.Lat), toRad(other.Lon))
	if math.IsNaN(s12) {
		return 0
	}
	return s12
}

// ForwardAzimuth returns the initial bearing in degrees [0,360) from p
// toward other.
func (p Point) ForwardAzimuth(other Point) float64 {
	_, azi1, _ := ellipsoid.Inverse(toRad(p.Lat), toRad(p.Lon), toRad(other.Lat), toRad(other.Lon))
	return azNormalize(azi1)
}

// BackwardAzimuth returns the bearing in degrees [0,360) at other looking
// back toward p (the azimuth an observer at other would use to return to p).
func (p Point) BackwardAzimuth(other Point) float64 {
	_, _, azi2 := ellipsoid.Inverse(toRad(p.Lat), toRad(p.Lon), toRad(other.Lat), toRad(other.Lon))
	// ellipsoid.Inverse returns azi2 already reversed, pointing from other
	// back toward p, so it is the heading to steer at other to head back
	// to p as it stands.
	return azNormalize(azi2)
}

// Destination returns the point reached by travelling distance meters from
// p along headingDeg (clockwise from true north).
func (p Point) Destination(distance, headingDeg float64) Point {
	lat2, lon2, _ := ellipsoid.Forward(toRad(p.Lat), toRad(p.Lon), toRad(headingDeg), distance)
	return NewPoint(toDeg(lon2), toDeg(lat2))
}

// Equal reports whether p and other are within EqualityToleranceMeters of
// each other.
func (p Point) Equal(other Point) bool {
	return p.Distance(other) < EqualityToleranceMeters
}

// quantize rounds a coordinate to a grid matching EqualityToleranceMeters,
// roughly 0.1m at the equator (1 degree of latitude is ~111km).
const quantizeStep = EqualityToleranceMeters / 111000.0

// QuantizedKey returns a hashable key consistent with Equal: two points
// within the equality tolerance of each other quantize to the same key
// with overwhelming probability (they may disagree only for pairs that
// straddle a quantization cell boundary by less than the tolerance).
func (p Point) QuantizedKey() [2]int64 {
	return [2]int64{
		int64(math.Round(p.Lon / quantizeStep)),
		int64(math.Round(p.Lat / quantizeStep)),
	}
}
