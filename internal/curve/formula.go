// internal/curve/formula.go
package curve

import "math"

// PurchaseReturn returns the tokens minted for reserveIn:
// supply * ((1 + reserveIn/balance)^weight - 1).
func PurchaseReturn(supply, balance, weight, reserveIn float64) float64 {
	return supply * (math.Pow(1+reserveIn/balance, weight) - 1)
}

// SaleReturn returns the reserve paid for tokensIn using the connector formula:
// balance * ((1 + tokensIn/supply)^(1/weight) - 1).
//
// This is not the inverse of PurchaseReturn. Selling the tokens of a buy pays
// out more reserve than the buy put in.
func SaleReturn(supply, balance, weight, tokensIn float64) float64 {
	return balance * (math.Pow(1+tokensIn/supply, 1/weight) - 1)
}

// InverseSaleReturn returns the reserve paid for tokensIn using the algebraic
// inverse of PurchaseReturn: balance * (1 - (1 - tokensIn/supply)^(1/weight)).
func InverseSaleReturn(supply, balance, weight, tokensIn float64) float64 {
	return balance * (1 - math.Pow(1-tokensIn/supply, 1/weight))
}

// SpotPrice returns balance / (supply * weight).
func SpotPrice(balance, supply, weight float64) float64 {
	return balance / (supply * weight)
}

// DeriveWeight returns the reserve weight implied by a price: balance / (price * supply).
func DeriveWeight(balance, price, supply float64) float64 {
	return balance / (price * supply)
}

// EffectivePrice returns the realized price of a trade, reserve per token.
// A zero token amount yields ±Inf, or NaN when reserve is zero too.
func EffectivePrice(reserve, tokens float64) float64 {
	return reserve / tokens
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
