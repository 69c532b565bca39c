// Package metrics holds the Prometheus collectors for price computations.
package metrics

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
)

// Computation outcomes. Kept low-cardinality.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidOrder = "invalid_order"
	OutcomeInvalidRule  = "invalid_rule"
	OutcomeMissingPrice = "missing_price"
	OutcomeError        = "error"
)

// Discount kinds.
const (
	KindStackable = "stackable"
	KindExclusive = "exclusive"
)

// Config labels every collector with the service and environment.
type Config struct {
	ServiceName string
	Environment string
}

// PricingMetrics records price computation signals. A nil *PricingMetrics is
// valid and records nothing, so tests and CLIs can pass nil.
type PricingMetrics struct {
	computations *prometheus.CounterVec
	duration     prometheus.Histogram
	discounts    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

// NewPricingMetrics creates the collectors and registers them on registerer.
func NewPricingMetrics(registerer prometheus.Registerer, cfg Config) (*PricingMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "mealprice"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &PricingMetrics{
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mealprice_computations_total",
			Help:        "Price computations by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "mealprice_computation_duration_seconds",
			Help:        "Latency of a price computation including the snapshot read.",
			Buckets:     []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			ConstLabels: constLabels,
		}),
		discounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mealprice_discounts_applied_total",
			Help:        "Discount rules applied to computed prices by kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mealprice_snapshot_cache_lookups_total",
			Help:        "Rule snapshot cache lookups by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.computations, m.duration, m.discounts, m.cacheLookups} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register pricing metrics")
		}
	}
	return m, nil
}

// ObserveComputation records one computation, its latency and the discounts it applied.
func (m *PricingMetrics) ObserveComputation(breakdown *domain.PriceBreakdown, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(Outcome(err)).Inc()
	m.duration.Observe(elapsed.Seconds())

	if breakdown == nil {
		return
	}
	for _, d := range breakdown.Discounts() {
		kind := KindStackable
		if d.Exclusive {
			kind = KindExclusive
		}
		m.discounts.WithLabelValues(kind).Inc()
	}
}

// ObserveCacheLookup records a snapshot cache hit or miss.
func (m *PricingMetrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// Outcome classifies a computation error into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInvalidOrder):
		return OutcomeInvalidOrder
	case errors.Is(err, domain.ErrValidation):
		return OutcomeInvalidRule
	case errors.Is(err, domain.ErrMissingBasePrice):
		return OutcomeMissingPrice
	default:
		return OutcomeError
	}
}
