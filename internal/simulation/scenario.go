package simulation

import (
	"fmt"
	"math"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/config"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
)

// DefaultScenario is the classic run: 100 buys of 100 reserve from the
// default curve, then the minted amounts sold back in reverse.
func DefaultScenario() Scenario {
	return Scenario{
		Name:      string(ModeRetrace),
		Curve:     curve.DefaultConfig(),
		Mode:      ModeRetrace,
		Orders:    config.DefaultOrders,
		OrderSize: config.DefaultOrderSize,
	}
}

// Validate checks the order parameters the driver feeds into the curve. The
// curve itself never validates trade amounts, so this is the only guard.
func (s Scenario) Validate() error {
	switch s.Mode {
	case ModeRetrace, ModeChained, ModeCycles:
	default:
		return fmt.Errorf("scenario %s: unknown mode %q", s.Name, s.Mode)
	}
	if s.Orders < 0 {
		return fmt.Errorf("scenario %s: negative orders count %d", s.Name, s.Orders)
	}
	if math.IsNaN(s.OrderSize) || math.IsInf(s.OrderSize, 0) || s.OrderSize <= 0 {
		return fmt.Errorf("scenario %s: order size must be positive and finite, got %v", s.Name, s.OrderSize)
	}
	if err := s.Curve.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return nil
}

// ScenariosFromConfig converts the loaded configuration into runnable scenarios.
func ScenariosFromConfig(cfg *config.Config) []Scenario {
	scenarios := make([]Scenario, 0, len(cfg.Scenarios))
	for _, sc := range cfg.Scenarios {
		scenarios = append(scenarios, Scenario{
			Name:      sc.Name,
			Curve:     cfg.CurveFor(sc),
			Mode:      Mode(sc.Mode),
			Orders:    sc.Orders,
			OrderSize: sc.OrderSize,
		})
	}
	return scenarios
}
