package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/atlasgrid/geodesy/internal/cache"
	"github.com/atlasgrid/geodesy/internal/geoid"
)

// Compile-time check: SimpleWGS84 implements Transformer.
var _ Transformer = (*SimpleWGS84)(nil)

// SimpleWGS84 is the concrete transform engine: geographic projections over
// the WGS84/NAD83/NAD27 datums with Helmert shifts through ECEF. UTM and
// State Plane are registered targets that fail explicitly.
type SimpleWGS84 struct {
	geoid      *geoid.Model
	store      cache.Store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// SimpleConfig holds SimpleWGS84 dependencies. Store defaults to an
// in-memory store; CacheTotal is an optional counter vec with label "result".
type SimpleConfig struct {
	Geoid      *geoid.Model
	Store      cache.Store
	CacheTotal *prometheus.CounterVec
	Logger     *zap.Logger
}

// NewSimpleWGS84 creates the engine.
func NewSimpleWGS84(cfg SimpleConfig) *SimpleWGS84 {
	store := cfg.Store
	if store == nil {
		store = cache.NewMemoryStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := cfg.Geoid
	if g == nil {
		g = geoid.NewModel(geoid.Config{Store: store, Logger: logger})
	}
	return &SimpleWGS84{geoid: g, store: store, cacheTotal: cfg.CacheTotal, logger: logger}
}

// SupportedProjections lists every registered projection identifier.
func (t *SimpleWGS84) SupportedProjections() []string {
	return ProjectionNames()
}

// Transform converts a coordinate between two registered projections. Results
// are cached; a hit bypasses recomputation entirely.
func (t *SimpleWGS84) Transform(ctx context.Context, c Coordinate, from, to string) (Coordinate, error) {
	fromDef, err := Lookup(from)
	if err != nil {
		return Coordinate{}, err
	}
	toDef, err := Lookup(to)
	if err != nil {
		return Coordinate{}, err
	}

	key := cache.TransformKey(c.Lat, c.Lng, c.Elevation, from, to)
	if data, cerr := t.store.Get(ctx, key); cerr == nil {
		if lat, lng, elev, derr := cache.DecodePosition(data); derr == nil {
			t.incCache("hit")
			return Coordinate{Lat: lat, Lng: lng, Elevation: elev, HasElevation: c.HasElevation, HeightRef: c.HeightRef, Projection: to}, nil
		}
	} else if !errors.Is(cerr, cache.ErrKeyNotFound) {
		t.logger.Warn("transform cache read failed", zap.String("key", key), zap.Error(cerr))
	}
	t.incCache("miss")

	out, err := t.convert(c, fromDef, toDef, false)
	if err != nil {
		t.logger.Error("transform failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.Float64("lat", c.Lat),
			zap.Float64("lng", c.Lng),
			zap.Float64("elevation", c.Elevation),
			zap.Error(err),
		)
		return Coordinate{}, fmt.Errorf("transform %s to %s: %w", from, to, err)
	}
	out.Projection = to
	out.HeightRef = c.HeightRef

	if err := t.store.Set(ctx, key, cache.EncodePosition(out.Lat, out.Lng, out.Elevation)); err != nil {
		t.logger.Warn("transform cache write failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

// convert runs the three-step pipeline: source to geographic form, datum
// shift, geographic to target form. The shifted flag is the single-flight
// guard for the dateline detour.
func (t *SimpleWGS84) convert(c Coordinate, fromDef, toDef Definition, shifted bool) (Coordinate, error) {
	if !shifted && crossesDateline(c.Lng) {
		moved := c
		if c.Lng > 0 {
			moved.Lng -= 360
		} else {
			moved.Lng += 360
		}
		out, err := t.convert(moved, fromDef, toDef, true)
		if err != nil {
			return Coordinate{}, err
		}
		out.Lng = wrapLongitude(out.Lng)
		return out, nil
	}

	// Step 1: source projection to geographic form on its own datum.
	if fromDef.Type != Geographic {
		return Coordinate{}, fmt.Errorf("conversion from %s (%s): %w", fromDef.Name, fromDef.Type, ErrNotImplemented)
	}

	// Step 2: datum shift.
	out := c
	if fromDef.Datum != toDef.Datum {
		var err error
		out, err = shiftDatum(c, fromDef.Datum, toDef.Datum)
		if err != nil {
			return Coordinate{}, err
		}
	}

	// Step 3: geographic form to target projection.
	if toDef.Type != Geographic {
		return Coordinate{}, fmt.Errorf("conversion to %s (%s): %w", toDef.Name, toDef.Type, ErrNotImplemented)
	}
	return out, nil
}

// EllipsoidalToOrthometric subtracts the geoid separation from the elevation.
func (t *SimpleWGS84) EllipsoidalToOrthometric(ctx context.Context, c Coordinate) (Coordinate, error) {
	if c.HeightRef == HeightOrthometric {
		return c, nil
	}
	h, err := t.geoid.Height(ctx, c.Lat, c.Lng)
	if err != nil {
		return Coordinate{}, fmt.Errorf("ellipsoidal to orthometric: %w", err)
	}
	out := c
	out.Elevation = c.Elevation - h
	out.HasElevation = true
	out.HeightRef = HeightOrthometric
	return out, nil
}

// OrthometricToEllipsoidal adds the geoid separation to the elevation.
func (t *SimpleWGS84) OrthometricToEllipsoidal(ctx context.Context, c Coordinate) (Coordinate, error) {
	if c.HeightRef == HeightEllipsoidal {
		return c, nil
	}
	h, err := t.geoid.Height(ctx, c.Lat, c.Lng)
	if err != nil {
		return Coordinate{}, fmt.Errorf("orthometric to ellipsoidal: %w", err)
	}
	out := c
	out.Elevation = c.Elevation + h
	out.HasElevation = true
	out.HeightRef = HeightEllipsoidal
	return out, nil
}

// ClearCache drops cached transform results and geoid heights.
func (t *SimpleWGS84) ClearCache(ctx context.Context) error {
	if err := t.store.Clear(ctx, cache.TransformPrefix); err != nil {
		return fmt.Errorf("clear transform cache: %w", err)
	}
	return t.geoid.ClearCache(ctx)
}

func (t *SimpleWGS84) incCache(result string) {
	if t.cacheTotal != nil {
		t.cacheTotal.WithLabelValues(result).Inc()
	}
}
