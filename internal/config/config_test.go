package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, curve.DefaultConfig(), cfg.Curve)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, "retrace", cfg.Scenarios[0].Mode)
	assert.Equal(t, 100, cfg.Scenarios[0].Orders)
	assert.Equal(t, 100.0, cfg.Scenarios[0].OrderSize)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "sim.yaml", `
curve:
  reserve_weight: 0.4
  token_supply: 2000
  reserve_balance: 500
scenarios:
  - name: original
    mode: chained
  - name: drift
    mode: cycles
    orders: 25
    curve:
      sell_formula: inverse
output:
  format: json
  export: true
  dir: results
workers: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Curve.ReserveWeight)
	assert.Equal(t, 2000.0, cfg.Curve.TokenSupply)
	assert.Equal(t, 500.0, cfg.Curve.ReserveBalance)
	assert.Equal(t, curve.SellFormulaConnector, cfg.Curve.SellFormula)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Output.Export)
	assert.Equal(t, "json", cfg.Output.Format)

	require.Len(t, cfg.Scenarios, 2)
	original := cfg.Scenarios[0]
	assert.Equal(t, "chained", original.Mode)
	assert.Equal(t, 100, original.Orders)
	assert.Equal(t, cfg.Curve, cfg.CurveFor(original))

	drift := cfg.Scenarios[1]
	assert.Equal(t, 25, drift.Orders)
	driftCurve := cfg.CurveFor(drift)
	assert.Equal(t, curve.SellFormulaInverse, driftCurve.SellFormula)
	assert.Equal(t, 0.4, driftCurve.ReserveWeight)
	assert.Equal(t, 2000.0, driftCurve.TokenSupply)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("BONDING_SIM_CURVE_RESERVE_WEIGHT", "0.25")
	t.Setenv("BONDING_SIM_WORKERS", "8")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Curve.ReserveWeight)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"weight out of range", "curve:\n  reserve_weight: 1.5\n"},
		{"negative reserve", "curve:\n  reserve_balance: -1\n"},
		{"unknown mode", "scenarios:\n  - mode: random\n"},
		{"non-positive order size", "scenarios:\n  - order_size: -5\n"},
		{"duplicate names", "scenarios:\n  - name: a\n  - name: a\n"},
		{"bad format", "output:\n  format: xml\n"},
		{"bad verbosity", "output:\n  verbosity: loud\n"},
		{"tiny chart", "output:\n  chart_width: 3\n"},
		{"zero workers", "workers: 0\n"},
		{"bad scenario curve", "scenarios:\n  - curve:\n      sell_formula: bancor\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "sim.yaml", tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_SampleFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "sim.yaml"))
	require.NoError(t, err)

	require.Len(t, cfg.Scenarios, 4)
	assert.Equal(t, curve.SellFormulaInverse, cfg.CurveFor(cfg.Scenarios[1]).SellFormula)
	assert.Equal(t, 20, cfg.Scenarios[3].Orders)
	assert.Empty(t, cfg.Output.MetricsFile)
}

func TestLoadConfig_ExplicitZerosKept(t *testing.T) {
	path := writeConfig(t, "sim.yaml", `
scenarios:
  - name: empty
    orders: 0
    curve:
      reserve_balance: 0
  - name: defaults
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Scenarios, 2)

	empty := cfg.Scenarios[0]
	assert.Equal(t, 0, empty.Orders)
	assert.Equal(t, DefaultOrderSize, empty.OrderSize)
	emptyCurve := cfg.CurveFor(empty)
	assert.Equal(t, 0.0, emptyCurve.ReserveBalance)
	assert.Equal(t, curve.DefaultReserveWeight, emptyCurve.ReserveWeight)
	assert.Equal(t, curve.DefaultTokenSupply, emptyCurve.TokenSupply)
	assert.Equal(t, curve.SellFormulaConnector, emptyCurve.SellFormula)

	defaults := cfg.Scenarios[1]
	assert.Equal(t, DefaultOrders, defaults.Orders)
	assert.Nil(t, defaults.Curve)
}
