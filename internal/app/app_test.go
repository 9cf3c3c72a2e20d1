package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Scenarios = []config.ScenarioConfig{
		{Name: "retrace", Mode: "retrace", Orders: 10, OrderSize: 100},
		{Name: "cycles", Mode: "cycles", Orders: 20, OrderSize: 100},
	}
	cfg.Output.Dir = t.TempDir()
	cfg.Output.ChartWidth = 40
	cfg.Output.ChartHeight = 8
	return cfg
}

func TestRun_ReportsAndExports(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Export = true
	cfg.Output.Format = "json"
	cfg.Output.MetricsFile = filepath.Join(t.TempDir(), "sim.prom")

	core, logs := observer.New(zap.InfoLevel)
	var out bytes.Buffer

	files, err := New(cfg, zap.New(core), &out).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		_, err := os.Stat(f)
		assert.NoError(t, err)
	}

	assert.Contains(t, out.String(), "RUN SUMMARY")
	assert.Contains(t, out.String(), "Market Maker: retrace")
	assert.Contains(t, out.String(), "halted")
	assert.Equal(t, 1, logs.FilterMessage("⚠️ Scenario halted early").Len())

	prom, err := os.ReadFile(cfg.Output.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `bonding_sim_runs_total{mode="cycles",outcome="halted"} 1`)
}

func TestRun_Quiet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Verbosity = "quiet"

	var out bytes.Buffer
	files, err := New(cfg, zap.NewNop(), &out).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, out.String())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t), zap.NewNop(), &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_FirstOrderHaltStillExportsOthers(t *testing.T) {
	cfg := testConfig(t)
	zero := cfg.Curve
	zero.ReserveBalance = 0
	cfg.Scenarios = []config.ScenarioConfig{
		{Name: "empty-reserve", Mode: "retrace", Orders: 10, OrderSize: 100, Curve: &zero},
		{Name: "retrace", Mode: "retrace", Orders: 10, OrderSize: 100},
	}
	cfg.Output.Export = true
	cfg.Output.Format = "csv"
	cfg.Output.MetricsFile = filepath.Join(t.TempDir(), "sim.prom")

	core, logs := observer.New(zap.InfoLevel)
	files, err := New(cfg, zap.New(core), &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Contains(t, filepath.Base(files[0]), "retrace_")
	assert.Equal(t, 1, logs.FilterMessage("⚠️ Nothing to export").Len())

	prom, err := os.ReadFile(cfg.Output.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `bonding_sim_runs_total{mode="retrace",outcome="halted"} 1`)
}
