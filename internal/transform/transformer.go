// Package transform implements the coordinate transformation capability:
// projection/datum conversion through a geocentric frame, height-reference
// conversion against the geoid model, and the registry of shared transformer
// instances.
package transform

import (
	"context"
	"math"
)

// Height reference identifiers shared with the public package.
const (
	HeightEllipsoidal = "ellipsoidal"
	HeightOrthometric = "orthometric"
)

// Coordinate is the package-internal coordinate representation. The public
// package converts to and from its own value type at the boundary.
type Coordinate struct {
	Lat        float64
	Lng        float64
	Elevation  float64
	// HasElevation records whether the elevation carries real data rather
	// than the zero default; transforms preserve it, height conversions
	// set it.
	HasElevation bool
	HeightRef    string
	Projection   string
}

// Transformer is the transformation capability contract.
type Transformer interface {
	// Transform converts a coordinate between two registered projections.
	Transform(ctx context.Context, c Coordinate, from, to string) (Coordinate, error)
	// SupportedProjections lists the projection identifiers this engine accepts.
	SupportedProjections() []string
	// EllipsoidalToOrthometric rebases elevation from the ellipsoid to the geoid.
	EllipsoidalToOrthometric(ctx context.Context, c Coordinate) (Coordinate, error)
	// OrthometricToEllipsoidal rebases elevation from the geoid to the ellipsoid.
	OrthometricToEllipsoidal(ctx context.Context, c Coordinate) (Coordinate, error)
	// ClearCache drops every cached transform result.
	ClearCache(ctx context.Context) error
}

// datelineThreshold is the |longitude| beyond which a transform detours
// through a shifted frame to avoid wraparound artifacts near the antimeridian.
const datelineThreshold = 170.0

// wrapLongitude folds a longitude into [-180, 180].
func wrapLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

// crossesDateline reports whether a coordinate is close enough to the
// antimeridian to need the shifted-frame detour.
func crossesDateline(lng float64) bool {
	return math.Abs(lng) > datelineThreshold
}
