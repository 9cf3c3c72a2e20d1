package report

import (
	"math"

	"github.com/dustin/go-humanize"
)

// formatNumber renders v with thousands separators and six decimals.
// Non-finite values are spelled out so they stand out in a report.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return humanize.FormatFloat("#,###.######", v)
}

// formatPercent renders a ratio as a signed percentage.
func formatPercent(ratio float64) string {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return formatNumber(ratio)
	}
	sign := ""
	if ratio > 0 {
		sign = "+"
	}
	return sign + humanize.FtoaWithDigits(ratio*100, 4) + "%"
}
