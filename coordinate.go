package geodesy

import (
	"fmt"
	"math"
)

// HeightReference identifies the vertical datum an elevation refers to.
type HeightReference string

// Height reference constants.
const (
	// HeightEllipsoidal is height above the reference ellipsoid, as reported
	// by satellite positioning.
	HeightEllipsoidal HeightReference = "ellipsoidal"
	// HeightOrthometric is height above the geoid, used in traditional
	// leveling surveys.
	HeightOrthometric HeightReference = "orthometric"
)

// DefaultProjection tags coordinates constructed without an explicit
// projection.
const DefaultProjection = "WGS84"

// EarthRadiusMeters is the mean Earth radius used by the spherical formulas.
const EarthRadiusMeters = 6_371_000.0

const degToRad = math.Pi / 180

// Coordinate is a 3D geographic position: latitude and longitude in degrees,
// elevation in meters against a height reference, and a projection tag.
// Latitude is always within [-90, 90] and longitude within [-180, 180] after
// construction; out-of-range input is clamped, not rejected. Every transform
// produces a new value; elevation is the only field with a mutator.
type Coordinate struct {
	lat          float64
	lng          float64
	elevation    float64
	heightRef    HeightReference
	projection   string
	hasElevation bool
}

// CoordinateOption customizes construction.
type CoordinateOption func(*Coordinate)

// WithElevation sets the elevation in meters. Non-finite input falls back to 0.
func WithElevation(meters float64) CoordinateOption {
	return func(c *Coordinate) {
		c.elevation = sanitizeFinite(meters)
		c.hasElevation = true
	}
}

// WithHeightReference sets the height reference. Anything outside the two
// enumerated values silently resets to ellipsoidal.
func WithHeightReference(ref HeightReference) CoordinateOption {
	return func(c *Coordinate) {
		c.heightRef = normalizeHeightRef(ref)
	}
}

// WithProjection sets the projection tag. Empty input keeps the default.
func WithProjection(projection string) CoordinateOption {
	return func(c *Coordinate) {
		if projection != "" {
			c.projection = projection
		}
	}
}

// New constructs a Coordinate leniently: NaN or infinite latitude/longitude
// become 0, out-of-range values are clamped. Construction never fails; use
// Engine.Normalize for warning logs or strict-mode errors.
func New(lat, lng float64, opts ...CoordinateOption) Coordinate {
	c := Coordinate{
		lat:        clampLatitude(sanitizeFinite(lat)),
		lng:        clampLongitude(sanitizeFinite(lng)),
		heightRef:  HeightEllipsoidal,
		projection: DefaultProjection,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 { return c.lat }

// Lng returns the longitude in degrees.
func (c Coordinate) Lng() float64 { return c.lng }

// Elevation returns the elevation in meters (0 when no elevation data was
// provided).
func (c Coordinate) Elevation() float64 { return c.elevation }

// HasElevation reports whether the coordinate carries real elevation data.
func (c Coordinate) HasElevation() bool { return c.hasElevation }

// HeightRef returns the height reference.
func (c Coordinate) HeightRef() HeightReference { return c.heightRef }

// Projection returns the projection tag.
func (c Coordinate) Projection() string { return c.projection }

// SetElevation replaces the elevation in place. It is the only mutator;
// non-finite input fails.
func (c *Coordinate) SetElevation(meters float64) error {
	if math.IsNaN(meters) || math.IsInf(meters, 0) {
		return fmt.Errorf("set elevation %v: %w", meters, ErrInvalidElevation)
	}
	c.elevation = meters
	c.hasElevation = true
	return nil
}

// Clone returns a copy of the coordinate.
func (c Coordinate) Clone() Coordinate { return c }

// Record returns the plain interchange form consumed by external
// collaborators.
func (c Coordinate) Record() map[string]any {
	return map[string]any{
		"lat":             c.lat,
		"lng":             c.lng,
		"elevation":       c.elevation,
		"heightReference": string(c.heightRef),
		"projection":      c.projection,
	}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.3fm %s, %s)", c.lat, c.lng, c.elevation, c.heightRef, c.projection)
}

// HaversineDistanceTo returns the horizontal great-circle distance in meters,
// ignoring elevation. Operands are assumed to share a projection; use
// Engine.Distance to reconcile frames first.
func (c Coordinate) HaversineDistanceTo(other Coordinate) float64 {
	return haversine(c.lat, c.lng, other.lat, other.lng)
}

// DistanceTo returns the 3D distance in meters: great-circle horizontal
// distance combined with the elevation delta via the Pythagorean theorem.
// Operands are assumed to share both projection and height reference.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	horizontal := c.HaversineDistanceTo(other)
	vertical := other.elevation - c.elevation
	return math.Hypot(horizontal, vertical)
}

// BearingTo returns the initial great-circle bearing toward other, in
// degrees normalized to [0, 360).
func (c Coordinate) BearingTo(other Coordinate) float64 {
	lat1 := c.lat * degToRad
	lat2 := other.lat * degToRad
	dLng := (other.lng - c.lng) * degToRad

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return normalizeBearing(math.Atan2(y, x) / degToRad)
}

// MidpointTo returns the great-circle midpoint with averaged elevation.
func (c Coordinate) MidpointTo(other Coordinate) Coordinate {
	lat1 := c.lat * degToRad
	lat2 := other.lat * degToRad
	lng1 := c.lng * degToRad
	dLng := (other.lng - c.lng) * degToRad

	bx := math.Cos(lat2) * math.Cos(dLng)
	by := math.Cos(lat2) * math.Sin(dLng)
	latMid := math.Atan2(
		math.Sin(lat1)+math.Sin(lat2),
		math.Sqrt((math.Cos(lat1)+bx)*(math.Cos(lat1)+bx)+by*by),
	)
	lngMid := lng1 + math.Atan2(by, math.Cos(lat1)+bx)

	mid := New(latMid/degToRad, wrapLongitude(lngMid/degToRad),
		WithHeightReference(c.heightRef), WithProjection(c.projection))
	mid.elevation = (c.elevation + other.elevation) / 2
	mid.hasElevation = c.hasElevation || other.hasElevation
	return mid
}

// haversine is the great-circle distance on the mean-radius sphere.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lng2 - lng1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func sanitizeFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampLatitude(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func clampLongitude(lng float64) float64 {
	return math.Max(-180, math.Min(180, lng))
}

func wrapLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func normalizeHeightRef(ref HeightReference) HeightReference {
	if ref == HeightOrthometric {
		return HeightOrthometric
	}
	return HeightEllipsoidal
}
