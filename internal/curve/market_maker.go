// internal/curve/market_maker.go
package curve

import "fmt"

// BuyResult is the outcome of one buy order.
type BuyResult struct {
	TokensOut      float64 `json:"tokens_out"`
	ReserveIn      float64 `json:"reserve_in"`
	EffectivePrice float64 `json:"effective_price"`
}

// Err returns an *UndefinedResultError when any field is ±Inf or NaN.
func (r BuyResult) Err() error {
	return checkFinite("buy",
		namedValue{"tokens_out", r.TokensOut},
		namedValue{"reserve_in", r.ReserveIn},
		namedValue{"effective_price", r.EffectivePrice},
	)
}

// SellResult is the outcome of one sell order.
type SellResult struct {
	TokensIn       float64 `json:"tokens_in"`
	ReserveOut     float64 `json:"reserve_out"`
	EffectivePrice float64 `json:"effective_price"`
}

// Err returns an *UndefinedResultError when any field is ±Inf or NaN.
func (r SellResult) Err() error {
	return checkFinite("sell",
		namedValue{"tokens_in", r.TokensIn},
		namedValue{"reserve_out", r.ReserveOut},
		namedValue{"effective_price", r.EffectivePrice},
	)
}

// State is a read-only snapshot of a market maker.
type State struct {
	ReserveWeight  float64 `json:"reserve_weight"`
	TokenSupply    float64 `json:"token_supply"`
	ReserveBalance float64 `json:"reserve_balance"`
	TokenPrice     float64 `json:"token_price"`
}

// Err returns an *UndefinedResultError when any field is ±Inf or NaN.
func (s State) Err() error {
	return checkFinite("state",
		namedValue{"reserve_weight", s.ReserveWeight},
		namedValue{"token_supply", s.TokenSupply},
		namedValue{"reserve_balance", s.ReserveBalance},
		namedValue{"token_price", s.TokenPrice},
	)
}

func (s State) String() string {
	return fmt.Sprintf("weight=%g supply=%g reserve=%g price=%g",
		s.ReserveWeight, s.TokenSupply, s.ReserveBalance, s.TokenPrice)
}

// MarketMaker is a single bonding-curve market maker. Every Buy and Sell
// mutates it in place; it must not be shared between goroutines.
type MarketMaker struct {
	reserveWeight  float64
	tokenSupply    float64
	reserveBalance float64
	tokenPrice     float64

	sellFormula SellFormula
	trades      int
}

// New creates a market maker from cfg after validating it.
func New(cfg Config) (*MarketMaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid curve config: %w", err)
	}

	mm := &MarketMaker{
		reserveWeight:  cfg.ReserveWeight,
		tokenSupply:    cfg.TokenSupply,
		reserveBalance: cfg.ReserveBalance,
		tokenPrice:     initialTokenPrice,
		sellFormula:    cfg.sellFormula(),
	}
	mm.updatePrice()

	return mm, nil
}

// NewDefault creates a market maker from DefaultConfig.
func NewDefault() *MarketMaker {
	mm, err := New(DefaultConfig())
	if err != nil {
		panic(err) // DefaultConfig is always valid
	}
	return mm
}

// Buy mints tokens for reserveIn and adds reserveIn to the balance.
// reserveIn is not validated: buy(0) mints nothing and the effective price
// is NaN.
func (m *MarketMaker) Buy(reserveIn float64) BuyResult {
	tokensOut := PurchaseReturn(m.tokenSupply, m.reserveBalance, m.reserveWeight, reserveIn)
	effectivePrice := EffectivePrice(reserveIn, tokensOut)

	m.tokenSupply += tokensOut
	m.reserveBalance += reserveIn
	m.recompute()

	return BuyResult{
		TokensOut:      tokensOut,
		ReserveIn:      reserveIn,
		EffectivePrice: effectivePrice,
	}
}

// Sell burns tokensIn and pays reserve out of the balance. tokensIn is not
// validated and may exceed the supply.
func (m *MarketMaker) Sell(tokensIn float64) SellResult {
	var reserveOut float64
	switch m.sellFormula {
	case SellFormulaInverse:
		reserveOut = InverseSaleReturn(m.tokenSupply, m.reserveBalance, m.reserveWeight, tokensIn)
	default:
		reserveOut = SaleReturn(m.tokenSupply, m.reserveBalance, m.reserveWeight, tokensIn)
	}
	effectivePrice := EffectivePrice(reserveOut, tokensIn)

	m.tokenSupply -= tokensIn
	m.reserveBalance -= reserveOut
	m.recompute()

	return SellResult{
		TokensIn:       tokensIn,
		ReserveOut:     reserveOut,
		EffectivePrice: effectivePrice,
	}
}

// recompute refreshes the price first, then derives the weight from the
// new price. The order matters: the weight is a function of the fresh price.
func (m *MarketMaker) recompute() {
	m.updatePrice()
	m.reserveWeight = DeriveWeight(m.reserveBalance, m.tokenPrice, m.tokenSupply)
	m.trades++
}

func (m *MarketMaker) updatePrice() {
	if m.reserveBalance != 0 {
		m.tokenPrice = SpotPrice(m.reserveBalance, m.tokenSupply, m.reserveWeight)
	}
}

// TokenPrice returns the spot price after the last recomputation.
func (m *MarketMaker) TokenPrice() float64 {
	return m.tokenPrice
}

// TokenSupply returns the tokens in circulation.
func (m *MarketMaker) TokenSupply() float64 {
	return m.tokenSupply
}

// ReserveBalance returns the connector balance held by the market maker.
func (m *MarketMaker) ReserveBalance() float64 {
	return m.reserveBalance
}

// ReserveWeight returns the weight derived after the last trade.
func (m *MarketMaker) ReserveWeight() float64 {
	return m.reserveWeight
}

// SellFormula returns the sale-return expression Sell uses.
func (m *MarketMaker) SellFormula() SellFormula {
	return m.sellFormula
}

// Trades returns the number of orders applied since construction.
func (m *MarketMaker) Trades() int { return m.trades }

// State returns a snapshot of the current balances, price and weight.
func (m *MarketMaker) State() State {
	return State{
		ReserveWeight:  m.reserveWeight,
		TokenSupply:    m.tokenSupply,
		ReserveBalance: m.reserveBalance,
		TokenPrice:     m.tokenPrice,
	}
}
