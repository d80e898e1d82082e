package geodesy

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/atlasgrid/geodesy/internal/cache"
	"github.com/atlasgrid/geodesy/internal/transform"
)

// engineConfig collects the options New applies.
type engineConfig struct {
	logger            *zap.Logger
	store             cache.Store
	transformerType   string
	strict            bool
	projBackend       any
	transformCacheVec *prometheus.CounterVec
	geoidCacheVec     *prometheus.CounterVec
}

// Option customizes an Engine.
type Option func(*engineConfig)

// WithLogger sets the logger used for lenient-coercion warnings and
// transform failure context. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *engineConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithCacheStore replaces the default in-memory cache backend, e.g. with the
// Redis store for deployments sharing caches across instances.
func WithCacheStore(store cache.Store) Option {
	return func(cfg *engineConfig) {
		if store != nil {
			cfg.store = store
		}
	}
}

// WithTransformer selects the transformer type key. Defaults to the simple
// WGS84 engine; unknown or unimplemented types fail at construction.
func WithTransformer(typeKey string) Option {
	return func(cfg *engineConfig) {
		if typeKey != "" {
			cfg.transformerType = typeKey
		}
	}
}

// WithStrictNormalization makes Normalize fail on input it would otherwise
// coerce to defaults: missing or unparseable latitude/longitude,
// out-of-range values, unrecognized height references.
func WithStrictNormalization() Option {
	return func(cfg *engineConfig) {
		cfg.strict = true
	}
}

// WithProjBackend attaches an external projection engine for the "proj"
// extension transformer. The integration is not implemented; the backend's
// presence only changes the warning emitted when that type is selected.
func WithProjBackend(backend any) Option {
	return func(cfg *engineConfig) {
		cfg.projBackend = backend
	}
}

// WithCacheMetrics wires the cache hit/miss counters (see
// internal/metrics.RegisterCoreMetrics). Each counter vec carries a single
// "result" label.
func WithCacheMetrics(transformCache, geoidCache *prometheus.CounterVec) Option {
	return func(cfg *engineConfig) {
		cfg.transformCacheVec = transformCache
		cfg.geoidCacheVec = geoidCache
	}
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		logger:          zap.NewNop(),
		transformerType: transform.TypeSimple,
	}
}

type measureConfig struct {
	includeElevation bool
}

// MeasureOption customizes a single measurement call.
type MeasureOption func(*measureConfig)

// WithoutElevation restricts a measurement to the horizontal plane even when
// both operands carry elevation data.
func WithoutElevation() MeasureOption {
	return func(mc *measureConfig) {
		mc.includeElevation = false
	}
}

func newMeasureConfig(opts []MeasureOption) measureConfig {
	mc := measureConfig{includeElevation: true}
	for _, opt := range opts {
		opt(&mc)
	}
	return mc
}
