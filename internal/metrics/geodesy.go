package metrics

import "github.com/prometheus/client_golang/prometheus"

// Core geodesy Prometheus metrics.
var (
	TransformCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodesy",
			Name:      "transform_cache_total",
			Help:      "Transform cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	GeoidCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodesy",
			Name:      "geoid_cache_total",
			Help:      "Geoid-height cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	TransformsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodesy",
			Name:      "transforms_total",
			Help:      "Coordinate transforms by source/target projection and status",
		},
		[]string{"from", "to", "status"},
	)
)

var coreMetricsRegistered bool

// RegisterCoreMetrics registers the geodesy metrics. Must be called once from main.
func RegisterCoreMetrics() {
	if coreMetricsRegistered {
		return
	}
	prometheus.MustRegister(TransformCacheTotal)
	prometheus.MustRegister(GeoidCacheTotal)
	prometheus.MustRegister(TransformsTotal)
	coreMetricsRegistered = true
}
