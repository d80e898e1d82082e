package geodesy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atlasgrid/geodesy/internal/cache"
	"github.com/atlasgrid/geodesy/internal/geoid"
	"github.com/atlasgrid/geodesy/internal/transform"
)

// Engine is the explicit context object owning the transformer registry and
// both caches. Every call site that needs a transform or a geoid lookup goes
// through an Engine, so tests get isolated fixtures and nothing hides behind
// process-wide state.
type Engine struct {
	registry        *transform.Registry
	geoid           *geoid.Model
	logger          *zap.Logger
	strict          bool
	transformerType string
}

// NewEngine builds an Engine and validates the selected transformer type by
// constructing it once.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	store := cfg.store
	if store == nil {
		store = cache.NewMemoryStore()
	}

	geoidModel := geoid.NewModel(geoid.Config{
		Store:      store,
		CacheTotal: cfg.geoidCacheVec,
		Logger:     cfg.logger,
	})

	registry := transform.NewRegistry(transform.RegistryConfig{
		Simple: transform.SimpleConfig{
			Geoid:      geoidModel,
			Store:      store,
			CacheTotal: cfg.transformCacheVec,
			Logger:     cfg.logger,
		},
		ProjBackend: cfg.projBackend,
		Logger:      cfg.logger,
	})

	if _, err := registry.Get(cfg.transformerType); err != nil {
		return nil, fmt.Errorf("select transformer: %w", err)
	}

	return &Engine{
		registry:        registry,
		geoid:           geoidModel,
		logger:          cfg.logger,
		strict:          cfg.strict,
		transformerType: cfg.transformerType,
	}, nil
}

// transformer returns the shared transformer instance for the engine's type.
func (e *Engine) transformer() (transform.Transformer, error) {
	t, err := e.registry.Get(e.transformerType)
	if err != nil {
		return nil, fmt.Errorf("get transformer: %w", err)
	}
	return t, nil
}

// Normalize turns any supported coordinate-like value (Coordinate, alias
// maps, accessor types, go-geom coords/points, ordinate slices) into a
// canonical Coordinate. In lenient mode (the default) coercions are logged
// and a safe default is returned for unreadable input; in strict mode both
// fail.
func (e *Engine) Normalize(v any) (Coordinate, error) {
	raw, err := parseAny(v)
	if err != nil {
		if e.strict {
			return Coordinate{}, err
		}
		e.logger.Warn("coordinate normalization failed, using default", zap.Error(err))
		return New(0, 0), nil
	}

	// coordinate() appends range warnings, so materialize before the strict check.
	c := raw.coordinate()
	if e.strict && len(raw.warnings) > 0 {
		return Coordinate{}, fmt.Errorf("%s: %w", raw.warnings[0], ErrMalformedCoordinate)
	}
	for _, w := range raw.warnings {
		e.logger.Warn("coordinate coerced during normalization", zap.String("detail", w))
	}
	return c, nil
}

// NormalizeAll normalizes a slice of coordinate-like values.
func (e *Engine) NormalizeAll(vs []any) ([]Coordinate, error) {
	out := make([]Coordinate, 0, len(vs))
	for i, v := range vs {
		c, err := e.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Transform converts a coordinate between two registered projections.
func (e *Engine) Transform(ctx context.Context, c Coordinate, from, to string) (Coordinate, error) {
	t, err := e.transformer()
	if err != nil {
		return Coordinate{}, err
	}
	out, err := t.Transform(ctx, toInternal(c, from), from, to)
	if err != nil {
		return Coordinate{}, err
	}
	return fromInternal(out), nil
}

// ToProjection reprojects a coordinate, returning a clone when the target
// matches the current projection.
func (e *Engine) ToProjection(ctx context.Context, c Coordinate, target string) (Coordinate, error) {
	if target == c.Projection() {
		return c.Clone(), nil
	}
	return e.Transform(ctx, c, c.Projection(), target)
}

// ToHeightReference converts the coordinate's elevation between the
// ellipsoidal and orthometric references. Any other pairing fails.
func (e *Engine) ToHeightReference(ctx context.Context, c Coordinate, target HeightReference) (Coordinate, error) {
	if target == c.HeightRef() {
		return c.Clone(), nil
	}

	t, err := e.transformer()
	if err != nil {
		return Coordinate{}, err
	}

	var out transform.Coordinate
	switch {
	case c.HeightRef() == HeightEllipsoidal && target == HeightOrthometric:
		out, err = t.EllipsoidalToOrthometric(ctx, toInternal(c, c.Projection()))
	case c.HeightRef() == HeightOrthometric && target == HeightEllipsoidal:
		out, err = t.OrthometricToEllipsoidal(ctx, toInternal(c, c.Projection()))
	default:
		return Coordinate{}, fmt.Errorf("%s to %s: %w", c.HeightRef(), target, ErrUnsupportedHeightReference)
	}
	if err != nil {
		return Coordinate{}, err
	}
	return fromInternal(out), nil
}

// GeoidHeight returns the ellipsoid-to-geoid separation at a position.
func (e *Engine) GeoidHeight(ctx context.Context, lat, lng float64) (float64, error) {
	return e.geoid.Height(ctx, lat, lng)
}

// SupportedProjections reports, per transformer type, the projection
// identifiers it accepts.
func (e *Engine) SupportedProjections() map[string][]string {
	return e.registry.SupportedProjections()
}

// ClearCaches drops every cached transform result and geoid height and
// empties the transformer registry.
func (e *Engine) ClearCaches(ctx context.Context) error {
	if err := e.registry.ClearCaches(ctx); err != nil {
		return err
	}
	return e.geoid.ClearCache(ctx)
}

// Distance returns the distance in meters between two coordinates,
// reconciling projection and height-reference mismatches by converting b
// into a's frame first. Elevation is included unless excluded via
// WithoutElevation.
func (e *Engine) Distance(ctx context.Context, a, b Coordinate, opts ...MeasureOption) (float64, error) {
	mc := newMeasureConfig(opts)

	if b.Projection() != a.Projection() {
		converted, err := e.ToProjection(ctx, b, a.Projection())
		if err != nil {
			return 0, fmt.Errorf("reconcile projection: %w", err)
		}
		b = converted
	}
	if b.HeightRef() != a.HeightRef() {
		converted, err := e.ToHeightReference(ctx, b, a.HeightRef())
		if err != nil {
			return 0, fmt.Errorf("reconcile height reference: %w", err)
		}
		b = converted
	}

	if mc.includeElevation {
		return a.DistanceTo(b), nil
	}
	return a.HaversineDistanceTo(b), nil
}

// Bearing returns the initial great-circle bearing from a to b in [0, 360).
func (e *Engine) Bearing(a, b Coordinate) float64 {
	return a.BearingTo(b)
}

// Midpoint returns the great-circle midpoint with averaged elevation.
func (e *Engine) Midpoint(a, b Coordinate) Coordinate {
	return a.MidpointTo(b)
}

func toInternal(c Coordinate, projection string) transform.Coordinate {
	return transform.Coordinate{
		Lat:          c.Lat(),
		Lng:          c.Lng(),
		Elevation:    c.Elevation(),
		HasElevation: c.hasElevation,
		HeightRef:    string(c.HeightRef()),
		Projection:   projection,
	}
}

// fromInternal rebuilds a public Coordinate; elevation presence travels with
// the internal form rather than being inferred from the value.
func fromInternal(tc transform.Coordinate) Coordinate {
	opts := []CoordinateOption{
		WithHeightReference(HeightReference(tc.HeightRef)),
		WithProjection(tc.Projection),
	}
	c := New(tc.Lat, tc.Lng, opts...)
	c.elevation = tc.Elevation
	c.hasElevation = tc.HasElevation
	return c
}
