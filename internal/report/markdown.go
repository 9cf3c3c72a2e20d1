package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

// RenderMarkdown renders a run as a Markdown document.
func RenderMarkdown(res *simulation.Result) string {
	var sb strings.Builder
	s := res.Summary()

	sb.WriteString(fmt.Sprintf("# Market Maker Run: %s\n\n", res.Scenario.Name))
	sb.WriteString(fmt.Sprintf("Run ID: `%s`\n\n", res.RunID))
	sb.WriteString(fmt.Sprintf("Started: %s | Elapsed: %s\n\n", res.Started.Format(time.RFC3339), res.Elapsed))

	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Mode | %s |\n", res.Scenario.Mode))
	sb.WriteString(fmt.Sprintf("| Orders | %d |\n", res.Scenario.Orders))
	sb.WriteString(fmt.Sprintf("| Order size | %s |\n", formatNumber(res.Scenario.OrderSize)))
	sb.WriteString(fmt.Sprintf("| Sell formula | %s |\n", sellFormula(res)))
	sb.WriteString("\n")

	sb.WriteString("## State\n\n")
	sb.WriteString("| Field | Initial | Final |\n")
	sb.WriteString("|-------|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Token price | %s | %s |\n", formatNumber(res.Initial.TokenPrice), formatNumber(res.Final.TokenPrice)))
	sb.WriteString(fmt.Sprintf("| Token supply | %s | %s |\n", formatNumber(res.Initial.TokenSupply), formatNumber(res.Final.TokenSupply)))
	sb.WriteString(fmt.Sprintf("| Reserve balance | %s | %s |\n", formatNumber(res.Initial.ReserveBalance), formatNumber(res.Final.ReserveBalance)))
	sb.WriteString(fmt.Sprintf("| Reserve weight | %s | %s |\n", formatNumber(res.Initial.ReserveWeight), formatNumber(res.Final.ReserveWeight)))
	sb.WriteString("\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Buys | %d |\n", s.Buys))
	sb.WriteString(fmt.Sprintf("| Sells | %d |\n", s.Sells))
	sb.WriteString(fmt.Sprintf("| Reserve in | %s |\n", formatNumber(s.ReserveIn)))
	sb.WriteString(fmt.Sprintf("| Reserve out | %s |\n", formatNumber(s.ReserveOut)))
	sb.WriteString(fmt.Sprintf("| Tokens minted | %s |\n", formatNumber(s.TokensMinted)))
	sb.WriteString(fmt.Sprintf("| Tokens burned | %s |\n", formatNumber(s.TokensBurned)))
	sb.WriteString(fmt.Sprintf("| Price range | %s .. %s |\n", formatNumber(s.MinPrice), formatNumber(s.MaxPrice)))
	sb.WriteString(fmt.Sprintf("| Reserve change | %s |\n", formatPercent(reserveChange(res))))
	sb.WriteString("\n")

	if res.Halted() {
		sb.WriteString("## Halt\n\n")
		sb.WriteString(fmt.Sprintf("Stopped after %d orders: `%s`\n\n", len(res.Steps), res.Halt.Error()))
	}

	sb.WriteString("## Orders\n\n")
	sb.WriteString("| # | Side | Tokens | Reserve | Effective price | Supply | Price |\n")
	sb.WriteString("|---|------|--------|---------|-----------------|--------|-------|\n")
	for _, step := range res.Steps {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
			step.Index+1,
			step.Side,
			formatNumber(step.Tokens),
			formatNumber(step.Reserve),
			formatNumber(step.EffectivePrice),
			formatNumber(step.State.TokenSupply),
			formatNumber(step.State.TokenPrice),
		))
	}

	return sb.String()
}
