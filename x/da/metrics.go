package da

import (
	"time"

	"github.com/compose-network/da-oracle/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds estimate-level metrics.
type Metrics struct {
	EstimatesTotal   *prometheus.CounterVec
	InFlight         prometheus.Gauge
	EstimateDuration *prometheus.HistogramVec
	CalldataSize     *prometheus.HistogramVec
	L1GasCost        *prometheus.HistogramVec
}

// NewMetrics registers DA metrics with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers DA metrics with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	r := metrics.NewComponentRegistryWith(reg, "daoracle", "estimator")

	return &Metrics{
		EstimatesTotal: r.NewCounterVec(prometheus.CounterOpts{
			Name: "estimates_total",
			Help: "Total number of DA gas estimates by oracle and outcome",
		}, []string{"oracle", "status"}),

		InFlight: r.NewGauge(prometheus.GaugeOpts{
			Name: "estimates_in_flight",
			Help: "Number of DA gas estimates currently running",
		}),

		EstimateDuration: r.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "estimate_duration_seconds",
			Help:    "Duration of DA gas estimates",
			Buckets: metrics.DurationBuckets,
		}, []string{"oracle"}),

		CalldataSize: r.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calldata_size_bytes",
			Help:    "Calldata size including expected extra bytes",
			Buckets: metrics.SizeBuckets,
		}, []string{"oracle"}),

		L1GasCost: r.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "l1_gas_cost",
			Help:    "Estimated DA cost in L2 gas units",
			Buckets: metrics.GasBuckets,
		}, []string{"oracle"}),
	}
}

// RecordEstimate records one estimate outcome.
func (m *Metrics) RecordEstimate(oracle string, size, gas float64, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EstimatesTotal.WithLabelValues(oracle, status).Inc()
	m.EstimateDuration.WithLabelValues(oracle).Observe(duration.Seconds())
	m.CalldataSize.WithLabelValues(oracle).Observe(size)
	if err == nil {
		m.L1GasCost.WithLabelValues(oracle).Observe(gas)
	}
}
