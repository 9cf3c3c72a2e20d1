// Package curve implements a constant-reserve-ratio bonding-curve market maker.
//
// A MarketMaker holds a reserve ("connector") balance, a token supply and a
// reserve weight. Buy mints tokens against incoming reserve, Sell burns tokens
// and pays reserve out. After every trade the token price is recomputed from
// the balances and the reserve weight is derived back from that price.
//
// Key types and functions:
//
//   - Config: immutable starting state, DefaultConfig() gives weight 0.5,
//     supply 1000 and reserve 250.
//   - MarketMaker: the mutable state, created with New() or NewDefault().
//   - PurchaseReturn(), SaleReturn(), InverseSaleReturn(): the emission formulas.
//   - SpotPrice(), DeriveWeight(): the recomputation step.
//   - ErrUndefinedResult, UndefinedResultError: detection of Inf/NaN results.
//
// Trades are never validated. Zero or negative amounts, or a sale larger than
// the supply, flow through IEEE-754 arithmetic and surface as infinities or
// NaN. Callers check BuyResult.Err(), SellResult.Err() or State.Err().
//
// A MarketMaker is not safe for concurrent use. Run independent simulations
// on independent instances.
//
// Usage example:
//
//	mm := curve.NewDefault()
//	res := mm.Buy(100)
//	if err := res.Err(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.TokensOut, mm.TokenPrice())
package curve
