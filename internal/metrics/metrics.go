// internal/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

const namespace = "bonding_sim"

// Run outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeHalted    = "halted"
)

// Collector holds the simulation metrics on a private registry, so several
// collectors can live in one process.
type Collector struct {
	registry *prometheus.Registry

	orders         *prometheus.CounterVec
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	reserveBalance *prometheus.GaugeVec
	tokenPrice     *prometheus.GaugeVec
}

// NewCollector creates a collector with every metric registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_total",
				Help:      "Orders executed against the market maker",
			},
			[]string{"mode", "side"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Scenario runs by outcome",
			},
			[]string{"mode", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of one scenario run",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"mode"},
		),
		reserveBalance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reserve_balance",
				Help:      "Connector balance at the end of the run",
			},
			[]string{"scenario"},
		),
		tokenPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "token_price",
				Help:      "Token price at the end of the run",
			},
			[]string{"scenario"},
		),
	}

	c.registry.MustRegister(c.orders, c.runs, c.runDuration, c.reserveBalance, c.tokenPrice)
	return c
}

// Registry exposes the registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRun adds one finished run.
func (c *Collector) RecordRun(res *simulation.Result) {
	mode := string(res.Scenario.Mode)

	for _, step := range res.Steps {
		c.orders.WithLabelValues(mode, string(step.Side)).Inc()
	}

	outcome := OutcomeCompleted
	if res.Halted() {
		outcome = OutcomeHalted
	}
	c.runs.WithLabelValues(mode, outcome).Inc()
	c.runDuration.WithLabelValues(mode).Observe(res.Elapsed.Seconds())

	c.reserveBalance.WithLabelValues(res.Scenario.Name).Set(res.Final.ReserveBalance)
	c.tokenPrice.WithLabelValues(res.Scenario.Name).Set(res.Final.TokenPrice)
}

// WriteTextfile dumps the metrics in the text exposition format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
