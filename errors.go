package geodesy

import (
	"errors"

	"github.com/atlasgrid/geodesy/internal/geoid"
	"github.com/atlasgrid/geodesy/internal/transform"
)

// Sentinel errors. The internal packages define the transform- and
// geoid-owned sentinels; they are re-exported here so callers match with
// errors.Is against one package.
var (
	// ErrNotImplemented signals a registered but unimplemented conversion
	// path (UTM, State Plane, the proj extension transformer).
	ErrNotImplemented = transform.ErrNotImplemented
	// ErrUnknownProjection signals a projection absent from the registry.
	ErrUnknownProjection = transform.ErrUnknownProjection
	// ErrUnknownTransformer signals a transformer type outside the fixed set.
	ErrUnknownTransformer = transform.ErrUnknownTransformer
	// ErrUnsupportedHeightReference signals a height conversion that is
	// neither ellipsoidal-to-orthometric nor the inverse.
	ErrUnsupportedHeightReference = transform.ErrUnsupportedHeightReference
	// ErrOutOfRange signals a geoid query outside the valid domain.
	ErrOutOfRange = geoid.ErrOutOfRange

	// ErrInsufficientPoints signals an operation given too few points to be
	// mathematically defined (area, centroid, path center).
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrInvalidElevation signals a non-finite elevation.
	ErrInvalidElevation = errors.New("invalid elevation")
	// ErrMalformedCoordinate signals an input normalization could not read.
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	// ErrInvalidSegment signals a segment index outside the path.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrInvalidDimensions signals a non-positive shape dimension.
	ErrInvalidDimensions = errors.New("invalid dimensions")
)
