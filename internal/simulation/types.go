package simulation

import (
	"time"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
)

// Mode selects how a scenario sizes its orders.
type Mode string

const (
	// ModeRetrace buys OrderSize Orders times, then sells the minted amounts
	// back in reverse order.
	ModeRetrace Mode = "retrace"
	// ModeChained feeds each buy's minted tokens in as the next buy's reserve
	// and each sell's reserve out as the next sell's tokens.
	ModeChained Mode = "chained"
	// ModeCycles runs Orders round trips, each a buy immediately followed by
	// a sale of what it minted.
	ModeCycles Mode = "cycles"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Scenario is one driver run over a fresh market maker.
type Scenario struct {
	Name      string
	Curve     curve.Config
	Mode      Mode
	Orders    int
	OrderSize float64
}

// Step is one executed order and the market state right after it.
type Step struct {
	Index          int         `json:"index"`
	Side           Side        `json:"side"`
	Tokens         float64     `json:"tokens"`
	Reserve        float64     `json:"reserve"`
	EffectivePrice float64     `json:"effective_price"`
	State          curve.State `json:"state"`
}

// Point is one (token supply, token price) sample.
type Point struct {
	Supply float64 `json:"supply"`
	Price  float64 `json:"price"`
}

// Result is everything a run produced. Halt is set when the run stopped at
// an undefined numeric result; the halting order is not in Steps and Final
// is the state after the last recorded step.
type Result struct {
	RunID    string                      `json:"run_id"`
	Scenario Scenario                    `json:"-"`
	Initial  curve.State                 `json:"initial"`
	Final    curve.State                 `json:"final"`
	Steps    []Step                      `json:"steps"`
	Trace    []Point                     `json:"trace"`
	Halt     *curve.UndefinedResultError `json:"-"`
	Started  time.Time                   `json:"started"`
	Elapsed  time.Duration               `json:"elapsed"`
}

// Halted reports whether the run stopped early.
func (r *Result) Halted() bool {
	return r.Halt != nil
}

// Prices returns the price column of the trace.
func (r *Result) Prices() []float64 {
	prices := make([]float64, len(r.Trace))
	for i, p := range r.Trace {
		prices[i] = p.Price
	}
	return prices
}
