// internal/curve/config.go
package curve

import (
	"errors"
	"fmt"
	"math"
)

// SellFormula selects the sale-return expression used by Sell.
type SellFormula string

const (
	// SellFormulaConnector pays balance * ((1 + t/S)^(1/w) - 1).
	SellFormulaConnector SellFormula = "connector"
	// SellFormulaInverse pays balance * (1 - (1 - t/S)^(1/w)).
	SellFormulaInverse SellFormula = "inverse"
)

// Starting state used by DefaultConfig and NewDefault.
const (
	DefaultReserveWeight  = 0.5
	DefaultTokenSupply    = 1000.0
	DefaultReserveBalance = 250.0
	// Price before the first recomputation. It stays in place when the
	// reserve balance is zero.
	initialTokenPrice = 1.0
)

// Config is the starting state of a market maker. It is copied on New and
// never referenced again, so one Config can seed any number of instances.
type Config struct {
	ReserveWeight  float64     `mapstructure:"reserve_weight" json:"reserve_weight"`
	TokenSupply    float64     `mapstructure:"token_supply" json:"token_supply"`
	ReserveBalance float64     `mapstructure:"reserve_balance" json:"reserve_balance"`
	SellFormula    SellFormula `mapstructure:"sell_formula" json:"sell_formula"`
}

// DefaultConfig returns weight 0.5, supply 1000, reserve 250 and the
// connector sell formula.
func DefaultConfig() Config {
	return Config{
		ReserveWeight:  DefaultReserveWeight,
		TokenSupply:    DefaultTokenSupply,
		ReserveBalance: DefaultReserveBalance,
		SellFormula:    SellFormulaConnector,
	}
}

// Validate checks the starting state. Trade amounts are not covered here.
func (c Config) Validate() error {
	if math.IsNaN(c.ReserveWeight) || c.ReserveWeight <= 0 || c.ReserveWeight > 1 {
		return fmt.Errorf("invalid reserve_weight %v: must be in (0, 1]", c.ReserveWeight)
	}
	if !isFinite(c.TokenSupply) || c.TokenSupply <= 0 {
		return fmt.Errorf("invalid token_supply %v: must be positive and finite", c.TokenSupply)
	}
	if !isFinite(c.ReserveBalance) || c.ReserveBalance < 0 {
		return fmt.Errorf("invalid reserve_balance %v: must be non-negative and finite", c.ReserveBalance)
	}
	switch c.SellFormula {
	case "", SellFormulaConnector, SellFormulaInverse:
	default:
		return errors.New("invalid sell_formula: expected connector or inverse")
	}
	return nil
}

func (c Config) sellFormula() SellFormula {
	if c.SellFormula == "" {
		return SellFormulaConnector
	}
	return c.SellFormula
}
