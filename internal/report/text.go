// internal/report/text.go
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui/style"
)

type row struct {
	label string
	value string
}

func renderRows(rows []row) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.label))
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := style.LabelStyle.Render(fmt.Sprintf("- %-*s", width, r.label))
		lines = append(lines, label+"  "+style.ValueStyle.Render(r.value))
	}
	return strings.Join(lines, "\n")
}

func panel(title string, titleStyle, panelStyle lipgloss.Style, rows []row) string {
	body := titleStyle.Render(title) + "\n" + renderRows(rows)
	return panelStyle.Render(body)
}

// RenderBuy renders one buy order with the balances it left behind.
func RenderBuy(step simulation.Step) string {
	return panel(
		fmt.Sprintf("BUY ORDER #%d", step.Index+1),
		style.SideStyle(true),
		style.BuyPanelStyle,
		[]row{
			{"Tokens bought", formatNumber(step.Tokens)},
			{"Reserve paid", formatNumber(step.Reserve)},
			{"Effective price", formatNumber(step.EffectivePrice)},
			{"Token supply", formatNumber(step.State.TokenSupply)},
			{"Reserve balance", formatNumber(step.State.ReserveBalance)},
		},
	)
}

// RenderSell renders one sell order with the balances it left behind.
func RenderSell(step simulation.Step) string {
	return panel(
		fmt.Sprintf("SELL ORDER #%d", step.Index+1),
		style.SideStyle(false),
		style.SellPanelStyle,
		[]row{
			{"Tokens sold", formatNumber(step.Tokens)},
			{"Reserve received", formatNumber(step.Reserve)},
			{"Effective price", formatNumber(step.EffectivePrice)},
			{"Token supply", formatNumber(step.State.TokenSupply)},
			{"Reserve balance", formatNumber(step.State.ReserveBalance)},
		},
	)
}

// RenderStep dispatches on the step side.
func RenderStep(step simulation.Step) string {
	if step.Side == simulation.SideBuy {
		return RenderBuy(step)
	}
	return RenderSell(step)
}

// RenderStatus renders the market maker state.
func RenderStatus(state curve.State) string {
	return panel(
		"MARKET-MAKER STATUS",
		style.TitleStyle,
		style.PanelStyle,
		[]row{
			{"Token price", formatNumber(state.TokenPrice)},
			{"Token supply", formatNumber(state.TokenSupply)},
			{"Reserve balance", formatNumber(state.ReserveBalance)},
			{"Reserve weight", formatNumber(state.ReserveWeight)},
		},
	)
}

// RenderSummary renders the aggregate view of a run.
func RenderSummary(res *simulation.Result) string {
	s := res.Summary()

	rows := []row{
		{"Scenario", fmt.Sprintf("%s (%s, %s sell)", res.Scenario.Name, res.Scenario.Mode, sellFormula(res))},
		{"Orders", fmt.Sprintf("%d buys / %d sells", s.Buys, s.Sells)},
		{"Reserve in", formatNumber(s.ReserveIn)},
		{"Reserve out", formatNumber(s.ReserveOut)},
		{"Net reserve kept", formatNumber(s.NetReserve)},
		{"Tokens minted", formatNumber(s.TokensMinted)},
		{"Tokens burned", formatNumber(s.TokensBurned)},
		{"Start price", formatNumber(s.StartPrice)},
		{"End price", formatNumber(s.EndPrice)},
		{"Price range", formatNumber(s.MinPrice) + " .. " + formatNumber(s.MaxPrice)},
		{"Reserve change", formatPercent(reserveChange(res))},
	}

	out := panel("RUN SUMMARY", style.TitleStyle, style.PanelStyle, rows)
	if res.Halted() {
		out += "\n" + style.WarningStyle.Render("halted: "+res.Halt.Error())
	}
	return out
}

func sellFormula(res *simulation.Result) curve.SellFormula {
	if res.Scenario.Curve.SellFormula == "" {
		return curve.SellFormulaConnector
	}
	return res.Scenario.Curve.SellFormula
}

func reserveChange(res *simulation.Result) float64 {
	return (res.Final.ReserveBalance - res.Initial.ReserveBalance) / res.Initial.ReserveBalance
}
