package report

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

func runScenario(t *testing.T, sc simulation.Scenario) *simulation.Result {
	t.Helper()
	res, err := simulation.NewRunner(zap.NewNop(), 1).Run(context.Background(), sc)
	require.NoError(t, err)
	return res
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,183.215957", formatNumber(1183.2159566199232))
	assert.Equal(t, "0.500000", formatNumber(0.5))
	assert.Equal(t, "-63.554198", formatNumber(-63.554197706))
	assert.Equal(t, "NaN", formatNumber(math.NaN()))
	assert.Equal(t, "+Inf", formatNumber(math.Inf(1)))
	assert.Equal(t, "-Inf", formatNumber(math.Inf(-1)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+12.5%", formatPercent(0.125))
	assert.Equal(t, "-25%", formatPercent(-0.25))
	assert.Equal(t, "0%", formatPercent(0))
}

func TestRenderBuy(t *testing.T) {
	res := runScenario(t, simulation.DefaultScenario())

	out := RenderBuy(res.Steps[0])
	assert.Contains(t, out, "BUY ORDER #1")
	assert.Contains(t, out, "Tokens bought")
	assert.Contains(t, out, "183.215957")
	assert.Contains(t, out, "100.000000")
	assert.Contains(t, out, "0.545804")
	assert.Contains(t, out, "1,183.215957")
	assert.Contains(t, out, "350.000000")
}

func TestRenderSell(t *testing.T) {
	res := runScenario(t, simulation.DefaultScenario())

	out := RenderStep(res.Steps[100])
	assert.Contains(t, out, "SELL ORDER #101")
	assert.Contains(t, out, "Reserve received")
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(curve.NewDefault().State())
	assert.Contains(t, out, "MARKET-MAKER STATUS")
	assert.Contains(t, out, "Token price")
	assert.Contains(t, out, "1,000.000000")
	assert.Contains(t, out, "250.000000")
}

func TestRenderSummary_Halted(t *testing.T) {
	sc := simulation.DefaultScenario()
	sc.Name = "cycles"
	sc.Mode = simulation.ModeCycles

	out := RenderSummary(runScenario(t, sc))
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "cycles (cycles, connector sell)")
	assert.Contains(t, out, "10 buys / 10 sells")
	assert.Contains(t, out, "halted:")
	assert.Contains(t, out, "undefined numeric result")
}

func TestRenderMarkdown(t *testing.T) {
	res := runScenario(t, simulation.DefaultScenario())

	md := RenderMarkdown(res)
	assert.True(t, strings.HasPrefix(md, "# Market Maker Run: retrace"))
	assert.Contains(t, md, "| Mode | retrace |")
	assert.Contains(t, md, "| Buys | 100 |")
	assert.Contains(t, md, "| 1 | buy | 183.215957 |")
	assert.NotContains(t, md, "## Halt")
	// header, separator and one row per order
	assert.Equal(t, 200+2, strings.Count(md[strings.Index(md, "## Orders"):], "\n|"))
}

func TestReporterVerbosity(t *testing.T) {
	res := runScenario(t, simulation.DefaultScenario())

	var quiet bytes.Buffer
	require.NoError(t, NewReporter(&quiet, VerbosityQuiet).Report(res))
	assert.Empty(t, quiet.String())

	var summary bytes.Buffer
	require.NoError(t, NewReporter(&summary, VerbositySummary).Report(res))
	assert.Contains(t, summary.String(), "RUN SUMMARY")
	assert.NotContains(t, summary.String(), "BUY ORDER")

	var trades bytes.Buffer
	require.NoError(t, NewReporter(&trades, VerbosityTrades).Report(res))
	assert.Equal(t, 100, strings.Count(trades.String(), "BUY ORDER"))
	assert.Equal(t, 100, strings.Count(trades.String(), "SELL ORDER"))
}
