// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/chart"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/config"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/export"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/metrics"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/report"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

// App runs the configured scenarios and writes their reports.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	out      io.Writer
	runner   *simulation.Runner
	reporter *report.Reporter
	exporter *export.Exporter
	metrics  *metrics.Collector
}

func New(cfg *config.Config, logger *zap.Logger, out io.Writer) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		runner:   simulation.NewRunner(logger, cfg.Workers),
		reporter: report.NewReporter(out, report.Verbosity(cfg.Output.Verbosity)),
		exporter: export.NewExporter(logger),
		metrics:  metrics.NewCollector(),
	}
}

// Run executes every scenario and reports them in configuration order.
// Exported file paths are returned in the same order.
func (a *App) Run(ctx context.Context) ([]string, error) {
	scenarios := simulation.ScenariosFromConfig(a.cfg)
	a.logger.Info(fmt.Sprintf("📋 Loaded %d scenarios", len(scenarios)),
		zap.Int("workers", a.cfg.Workers))

	results, err := a.runner.RunAll(ctx, scenarios)
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	var files []string
	for _, res := range results {
		a.metrics.RecordRun(res)
		if err := a.present(res); err != nil {
			return files, err
		}

		if !a.cfg.Output.Export {
			continue
		}
		path, err := a.exporter.ExportRun(res, export.Options{
			Format:    export.Format(a.cfg.Output.Format),
			OutputDir: a.cfg.Output.Dir,
		})
		if errors.Is(err, export.ErrNoSteps) {
			a.logger.Warn("⚠️ Nothing to export",
				zap.String("scenario", res.Scenario.Name),
				zap.Bool("halted", res.Halted()))
			continue
		}
		if err != nil {
			return files, fmt.Errorf("export %s: %w", res.Scenario.Name, err)
		}
		files = append(files, path)
	}

	if a.cfg.Output.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Output.MetricsFile); err != nil {
			return files, err
		}
		a.logger.Info("📊 Metrics written", zap.String("file", a.cfg.Output.MetricsFile))
	}

	a.logger.Info("✅ All scenarios finished", zap.Int("exported", len(files)))
	return files, nil
}

func (a *App) present(res *simulation.Result) error {
	if res.Halted() {
		a.logger.Warn("⚠️ Scenario halted early",
			zap.String("scenario", res.Scenario.Name),
			zap.Int("steps", len(res.Steps)),
			zap.Error(res.Halt))
	}

	if a.cfg.Output.Verbosity == string(report.VerbosityQuiet) {
		return nil
	}

	if err := a.reporter.Report(res); err != nil {
		return err
	}

	plot := chart.NewPlot(a.cfg.Output.ChartWidth, a.cfg.Output.ChartHeight).
		SetTitle("Market Maker: " + res.Scenario.Name)
	spark := chart.NewSparkline(a.cfg.Output.ChartWidth).SetData(res.Prices()).ShowText(true)

	if _, err := fmt.Fprintf(a.out, "%s\n%s\n\n", plot.RenderTrace(res.Trace), spark.View()); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}
