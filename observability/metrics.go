package observability

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ActuatorMetrics tracks contract application inside the block processor.
type ActuatorMetrics struct {
	contracts *prometheus.CounterVec
	fees      prometheus.Counter
	frozen    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	blocks    prometheus.Counter
}

var (
	actuatorMetricsOnce sync.Once
	actuatorRegistry    *ActuatorMetrics
)

// Actuator returns the lazily-initialised actuator metrics registry.
func Actuator() *ActuatorMetrics {
	actuatorMetricsOnce.Do(func() {
		actuatorRegistry = &ActuatorMetrics{
			contracts: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "unichain",
				Subsystem: "actuator",
				Name:      "contracts_total",
				Help:      "Contracts applied segmented by contract type and outcome.",
			}, []string{"type", "outcome"}),
			fees: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "unichain",
				Subsystem: "actuator",
				Name:      "fees_charged_total",
				Help:      "Sum of fees recorded in contract results.",
			}),
			frozen: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "unichain",
				Subsystem: "actuator",
				Name:      "frozen_total",
				Help:      "Base units frozen segmented by resource and whether they were delegated.",
			}, []string{"resource", "delegated"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "unichain",
				Subsystem: "actuator",
				Name:      "execute_duration_seconds",
				Help:      "Validate plus execute latency per contract type.",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
			}, []string{"type"}),
			blocks: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "unichain",
				Subsystem: "processor",
				Name:      "blocks_total",
				Help:      "Blocks applied by the processor.",
			}),
		}
		prometheus.MustRegister(
			actuatorRegistry.contracts,
			actuatorRegistry.fees,
			actuatorRegistry.frozen,
			actuatorRegistry.duration,
			actuatorRegistry.blocks,
		)
	})
	return actuatorRegistry
}

// ObserveContract records one applied contract. Outcome should be one of
// "success", "rejected" or "failed".
func (m *ActuatorMetrics) ObserveContract(contractType, outcome string, fee int64, d time.Duration) {
	if m == nil {
		return
	}
	contractType = label(contractType)
	m.contracts.WithLabelValues(contractType, label(outcome)).Inc()
	if fee > 0 {
		m.fees.Add(float64(fee))
	}
	m.duration.WithLabelValues(contractType).Observe(d.Seconds())
}

// RecordFrozen adds a frozen amount for the supplied resource.
func (m *ActuatorMetrics) RecordFrozen(resource string, delegated bool, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	flag := "false"
	if delegated {
		flag = "true"
	}
	m.frozen.WithLabelValues(label(resource), flag).Add(float64(amount))
}

// RecordBlock increments the applied block counter.
func (m *ActuatorMetrics) RecordBlock() {
	if m == nil {
		return
	}
	m.blocks.Inc()
}

// Contracts exposes the contract counter for assertions.
func (m *ActuatorMetrics) Contracts() *prometheus.CounterVec { return m.contracts }

// Frozen exposes the frozen counter for assertions.
func (m *ActuatorMetrics) Frozen() *prometheus.CounterVec { return m.frozen }

// Fees exposes the fee counter for assertions.
func (m *ActuatorMetrics) Fees() prometheus.Counter { return m.fees }

func label(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
