package rest

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dispatcher collectors.
type Metrics struct {
	Dispatches      *prometheus.CounterVec
	Attempts        prometheus.Counter
	Retries         prometheus.Counter
	Duration        *prometheus.HistogramVec
	BudgetRemaining prometheus.Gauge
	RateWait        prometheus.Histogram
	Buckets         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg when it is
// not nil. Collectors already registered by another dispatcher are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recnet",
				Subsystem: "rest",
				Name:      "dispatches_total",
				Help:      "Total dispatched calls by outcome",
			},
			[]string{"outcome"},
		),
		Attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recnet",
			Subsystem: "rest",
			Name:      "attempts_total",
			Help:      "Total network attempts, including retries",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recnet",
			Subsystem: "rest",
			Name:      "retries_total",
			Help:      "Total attempts repeated after a transport error",
		}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recnet",
				Subsystem: "rest",
				Name:      "request_seconds",
				Help:      "Duration of calls in seconds, retries included",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		BudgetRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "recnet",
			Subsystem: "rest",
			Name:      "rate_budget_remaining",
			Help:      "Calls left in the current rate window",
		}),
		RateWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recnet",
			Subsystem: "rest",
			Name:      "rate_wait_seconds",
			Help:      "Time spent waiting for the rate budget",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 5, 15, 30, 60},
		}),
		Buckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "recnet",
			Subsystem: "rest",
			Name:      "bucket_locks",
			Help:      "Bucket locks currently held or awaited",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.Dispatches, err = register(reg, m.Dispatches); err != nil {
		return nil, err
	}
	if m.Attempts, err = register(reg, m.Attempts); err != nil {
		return nil, err
	}
	if m.Retries, err = register(reg, m.Retries); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	if m.BudgetRemaining, err = register(reg, m.BudgetRemaining); err != nil {
		return nil, err
	}
	if m.RateWait, err = register(reg, m.RateWait); err != nil {
		return nil, err
	}
	if m.Buckets, err = register(reg, m.Buckets); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, returning the existing collector on a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
