package transform

import "math"

// WGS84 ellipsoid constants used for all ECEF conversions regardless of
// datum; the Helmert parameters absorb the inter-datum differences.
const (
	semiMajorAxis = 6378137.0        // a, meters
	eccSquared    = 0.00669437999014 // e^2
)

var (
	semiMinorAxis = semiMajorAxis * math.Sqrt(1-eccSquared) // b
	ecc2Prime     = eccSquared / (1 - eccSquared)           // e'^2
)

// geographicToECEF converts geodetic latitude/longitude (degrees) and
// ellipsoidal height (meters) to Earth-Centered Earth-Fixed Cartesian
// coordinates.
func geographicToECEF(lat, lng, height float64) (x, y, z float64) {
	latRad := lat * math.Pi / 180
	lngRad := lng * math.Pi / 180

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)

	// Prime vertical radius of curvature.
	n := semiMajorAxis / math.Sqrt(1-eccSquared*sinLat*sinLat)

	x = (n + height) * cosLat * math.Cos(lngRad)
	y = (n + height) * cosLat * math.Sin(lngRad)
	z = (n*(1-eccSquared) + height) * sinLat
	return x, y, z
}

// ecefToGeographic converts ECEF Cartesian coordinates back to geodetic
// latitude/longitude (degrees) and ellipsoidal height (meters) using
// Bowring's closed-form solution via the parametric latitude. No iteration;
// the residual error is sub-millimeter for terrestrial points.
func ecefToGeographic(x, y, z float64) (lat, lng, height float64) {
	p := math.Hypot(x, y)

	if p < 1e-9 {
		// Polar axis: longitude is undefined, latitude is a pole.
		lat = math.Copysign(90, z)
		height = math.Abs(z) - semiMinorAxis
		return lat, 0, height
	}

	// Parametric (reduced) latitude estimate.
	theta := math.Atan2(z*semiMajorAxis, p*semiMinorAxis)
	sinTheta := math.Sin(theta)
	cosTheta := math.Cos(theta)

	latRad := math.Atan2(
		z+ecc2Prime*semiMinorAxis*sinTheta*sinTheta*sinTheta,
		p-eccSquared*semiMajorAxis*cosTheta*cosTheta*cosTheta,
	)
	lngRad := math.Atan2(y, x)

	sinLat := math.Sin(latRad)
	n := semiMajorAxis / math.Sqrt(1-eccSquared*sinLat*sinLat)
	height = p/math.Cos(latRad) - n

	return latRad * 180 / math.Pi, lngRad * 180 / math.Pi, height
}
