package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Common histogram buckets shared by components.
var (
	DurationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	SizeBuckets     = prometheus.ExponentialBuckets(64, 2, 14) // 64B .. 512KiB
	GasBuckets      = prometheus.ExponentialBuckets(1_000, 2, 16)
)

// ComponentRegistry creates collectors under a fixed namespace/subsystem pair.
type ComponentRegistry struct {
	namespace string
	subsystem string
	factory   promauto.Factory
}

// NewComponentRegistry registers with the default prometheus registerer.
func NewComponentRegistry(namespace, subsystem string) *ComponentRegistry {
	return NewComponentRegistryWith(prometheus.DefaultRegisterer, namespace, subsystem)
}

// NewComponentRegistryWith registers with reg. A nil reg creates unregistered collectors.
func NewComponentRegistryWith(reg prometheus.Registerer, namespace, subsystem string) *ComponentRegistry {
	return &ComponentRegistry{
		namespace: namespace,
		subsystem: subsystem,
		factory:   promauto.With(reg),
	}
}

func (r *ComponentRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace, opts.Subsystem = r.namespace, r.subsystem
	return r.factory.NewCounterVec(opts, labels)
}

func (r *ComponentRegistry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace, opts.Subsystem = r.namespace, r.subsystem
	return r.factory.NewGauge(opts)
}

func (r *ComponentRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	opts.Namespace, opts.Subsystem = r.namespace, r.subsystem
	return r.factory.NewGaugeVec(opts, labels)
}

func (r *ComponentRegistry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.Namespace, opts.Subsystem = r.namespace, r.subsystem
	return r.factory.NewHistogram(opts)
}

func (r *ComponentRegistry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace, opts.Subsystem = r.namespace, r.subsystem
	return r.factory.NewHistogramVec(opts, labels)
}
