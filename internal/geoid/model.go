// Package geoid estimates the separation between the WGS84 ellipsoid and the
// geoid. The model is a documented approximation: inside a continental-US
// bounding box it bilinearly interpolates four anchor heights plus a
// small-amplitude sinusoidal local-variation term; elsewhere it falls back to
// a coarse latitude-driven trend with a longitude-driven perturbation. A real
// gridded model (EGM2008, GEOID18) would replace both paths.
package geoid

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/atlasgrid/geodesy/internal/cache"
)

// ErrOutOfRange signals a query outside the valid latitude/longitude domain.
var ErrOutOfRange = errors.New("coordinate out of range")

// ErrGridNotImplemented signals that grid-file loading performed no work.
var ErrGridNotImplemented = errors.New("geoid grid loading not implemented")

// Continental-US bounding box served by the bilinear path.
const (
	conusLatMin = 24.0
	conusLatMax = 50.0
	conusLngMin = -125.0
	conusLngMax = -66.0
)

// Anchor geoid heights (meters) at the CONUS box corners, loosely following
// the EGM96 trend across the lower 48.
const (
	heightNW = -20.0 // (50, -125)
	heightNE = -28.0 // (50, -66)
	heightSW = -35.0 // (24, -125)
	heightSE = -45.0 // (24, -66)
)

// Model computes geoid heights with a non-expiring lookup cache quantized to
// 4 decimal degrees.
type Model struct {
	store      cache.Store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// Config holds Model dependencies. Store is required; CacheTotal is an
// optional counter vec with label "result" ("hit"/"miss").
type Config struct {
	Store      cache.Store
	CacheTotal *prometheus.CounterVec
	Logger     *zap.Logger
}

// NewModel creates a geoid model.
func NewModel(cfg Config) *Model {
	store := cfg.Store
	if store == nil {
		store = cache.NewMemoryStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{store: store, cacheTotal: cfg.CacheTotal, logger: logger}
}

// Height returns the ellipsoid-to-geoid separation in meters at the given
// position. Queries outside [-90,90]x[-180,180] fail.
func (m *Model) Height(ctx context.Context, lat, lng float64) (float64, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, fmt.Errorf("geoid height at (%.4f, %.4f): %w", lat, lng, ErrOutOfRange)
	}

	// Quantize to the cache granularity so nearby lookups share an entry.
	qLat := math.Round(lat*1e4) / 1e4
	qLng := math.Round(lng*1e4) / 1e4
	key := cache.GeoidKey(qLat, qLng)

	if data, err := m.store.Get(ctx, key); err == nil {
		if h, derr := cache.DecodeHeight(data); derr == nil {
			m.incCache("hit")
			return h, nil
		}
	} else if !errors.Is(err, cache.ErrKeyNotFound) {
		m.logger.Warn("geoid cache read failed", zap.String("key", key), zap.Error(err))
	}
	m.incCache("miss")

	h := separation(qLat, qLng)

	if err := m.store.Set(ctx, key, cache.EncodeHeight(h)); err != nil {
		m.logger.Warn("geoid cache write failed", zap.String("key", key), zap.Error(err))
	}
	return h, nil
}

// ClearCache drops every cached geoid height.
func (m *Model) ClearCache(ctx context.Context) error {
	if err := m.store.Clear(ctx, cache.GeoidPrefix); err != nil {
		return fmt.Errorf("clear geoid cache: %w", err)
	}
	return nil
}

// LoadGrid is reserved for a future gridded model. It performs no work and
// says so.
func (m *Model) LoadGrid(path string) error {
	return fmt.Errorf("load geoid grid %q: %w", path, ErrGridNotImplemented)
}

func (m *Model) incCache(result string) {
	if m.cacheTotal != nil {
		m.cacheTotal.WithLabelValues(result).Inc()
	}
}

// separation is the deterministic approximation behind Height.
func separation(lat, lng float64) float64 {
	if lat >= conusLatMin && lat <= conusLatMax && lng >= conusLngMin && lng <= conusLngMax {
		return conusSeparation(lat, lng)
	}
	return coarseSeparation(lat, lng)
}

// conusSeparation bilinearly interpolates the corner anchors and adds a
// small sinusoidal term standing in for local undulation.
func conusSeparation(lat, lng float64) float64 {
	ty := (lat - conusLatMin) / (conusLatMax - conusLatMin)
	tx := (lng - conusLngMin) / (conusLngMax - conusLngMin)

	south := heightSW + (heightSE-heightSW)*tx
	north := heightNW + (heightNE-heightNW)*tx
	base := south + (north-south)*ty

	local := 0.4 * math.Sin(lat*0.5) * math.Cos(lng*0.25)
	return base + local
}

// coarseSeparation is the out-of-box fallback: a latitude-linear trend with a
// longitude-driven sinusoidal perturbation.
func coarseSeparation(lat, lng float64) float64 {
	base := -0.3 * lat
	perturbation := 5.0 * math.Sin(2*lng*math.Pi/180)
	return base + perturbation
}
