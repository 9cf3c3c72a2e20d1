package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/app"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/config"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (json, yaml or toml)")
	mode := flag.String("scenario", "", "Override the mode of every scenario: retrace, chained or cycles")
	exportRuns := flag.Bool("export", false, "Export every run to the output directory")
	format := flag.String("format", "", "Export format: csv, json or markdown")
	quiet := flag.Bool("quiet", false, "Print nothing but errors")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyFlags(cfg, *mode, *format, *exportRuns, *quiet); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	appLogger, err := logger.New(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(appLogger); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	appLogger.Info("🚀 Starting bonding curve simulation")

	files, err := app.New(cfg, appLogger, os.Stdout).Run(rootCtx)
	if err != nil {
		appLogger.Error("💥 Simulation failed", zap.Error(err))
		_ = logger.Sync(appLogger)
		stop()
		os.Exit(1)
	}
	for _, f := range files {
		appLogger.Info("📁 Exported " + f)
	}
}

func applyFlags(cfg *config.Config, mode, format string, exportRuns, quiet bool) error {
	if mode != "" {
		for i := range cfg.Scenarios {
			cfg.Scenarios[i].Mode = mode
		}
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if exportRuns {
		cfg.Output.Export = true
	}
	if quiet {
		cfg.Output.Verbosity = "quiet"
		cfg.Logging.Console = false
	}
	return cfg.Validate()
}
