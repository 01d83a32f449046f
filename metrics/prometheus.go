package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krisalay/compute-cache/types"
)

const namespace = "computecache"

// Prometheus reports cache events on its own registry. A nil *Prometheus is a valid no-op.
type Prometheus struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	computeErrors   prometheus.Counter
	invalidations   prometheus.Counter
	expirations     prometheus.Counter
	evictions       prometheus.Counter
	computeDuration prometheus.Histogram
}

var _ types.Metrics = (*Prometheus)(nil)

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total GetOrCompute lookups by result",
	}, []string{"result"})

	computeErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compute_errors_total",
		Help:      "Total failed compute function runs",
	})

	invalidations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalidations_total",
		Help:      "Total entries removed by Invalidate or Clear",
	})

	expirations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expirations_total",
		Help:      "Total entries found expired on read",
	})

	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evictions_total",
		Help:      "Total entries evicted for capacity",
	})

	computeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "compute_duration_seconds",
		Help:      "Compute function duration, successful or not",
		Buckets:   prometheus.DefBuckets,
	})

	registry.MustRegister(requests, computeErrors, invalidations, expirations, evictions, computeDuration)

	return &Prometheus{
		registry:        registry,
		requests:        requests,
		computeErrors:   computeErrors,
		invalidations:   invalidations,
		expirations:     expirations,
		evictions:       evictions,
		computeDuration: computeDuration,
	}
}

// Registry exposes the underlying registry, mostly for tests and extra collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

func (p *Prometheus) Handler() http.Handler {
	if p == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) Hit() {
	if p == nil {
		return
	}
	p.requests.WithLabelValues("hit").Inc()
}

func (p *Prometheus) Miss() {
	if p == nil {
		return
	}
	p.requests.WithLabelValues("miss").Inc()
}

func (p *Prometheus) Computed(latency time.Duration) {
	if p == nil {
		return
	}
	p.computeDuration.Observe(latency.Seconds())
}

func (p *Prometheus) ComputeFailed(latency time.Duration) {
	if p == nil {
		return
	}
	p.computeErrors.Inc()
	p.computeDuration.Observe(latency.Seconds())
}

func (p *Prometheus) Invalidate(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.invalidations.Add(float64(n))
}

func (p *Prometheus) Expire() {
	if p == nil {
		return
	}
	p.expirations.Inc()
}

func (p *Prometheus) Eviction() {
	if p == nil {
		return
	}
	p.evictions.Inc()
}
