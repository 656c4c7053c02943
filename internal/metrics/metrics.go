// Package metrics exposes the optional Prometheus exposition endpoint
// surfacing scheduler and registry health.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	serviceRuntime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "modesd",
		Subsystem: "scheduler",
		Name:      "service_runtime_seconds",
		Help:      "Wall-clock time spent in one service invocation.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"service"})

	serviceMissed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "modesd",
		Subsystem: "scheduler",
		Name:      "service_missed_releases_total",
		Help:      "Releases coalesced onto an already-signalled service semaphore.",
	}, []string{"service"})

	registrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "modesd",
		Subsystem: "registry",
		Name:      "aircraft_count",
		Help:      "Number of aircraft currently tracked.",
	})
)

// ObserveRuntime records one service invocation's wall-clock duration.
func ObserveRuntime(service string, seconds float64) {
	serviceRuntime.WithLabelValues(service).Observe(seconds)
}

// IncMissed increments the missed-release counter for a service.
func IncMissed(service string) {
	serviceMissed.WithLabelValues(service).Inc()
}

// SetRegistrySize publishes the current aircraft count.
func SetRegistrySize(n int) {
	registrySize.Set(float64(n))
}

// Handler returns the HTTP handler serving the Prometheus exposition
// format; callers mount it on an address only when metrics are enabled.
func Handler() http.Handler {
	return promhttp.Handler()
}
