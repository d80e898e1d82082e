package transform

import "errors"

var (
	// ErrNotImplemented signals a registered but unimplemented conversion path.
	ErrNotImplemented = errors.New("not implemented")
	// ErrUnknownProjection signals a projection absent from the registry.
	ErrUnknownProjection = errors.New("unknown projection")
	// ErrUnknownTransformer signals a transformer type outside the fixed set.
	ErrUnknownTransformer = errors.New("unknown transformer type")
	// ErrUnsupportedHeightReference signals a height conversion that is
	// neither ellipsoidal-to-orthometric nor the inverse.
	ErrUnsupportedHeightReference = errors.New("unsupported height reference")
	// ErrNoDatumShift signals a datum pair with no registered parameters and
	// no pivot path.
	ErrNoDatumShift = errors.New("no datum shift registered")
)
