package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/config"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (json, yaml or toml)")
	orderSize := flag.Float64("size", config.DefaultOrderSize, "Reserve paid per buy order")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Console output would corrupt the screen, so the UI logs into a buffer
	// shown in its log panel. The rotated file still gets everything.
	logBuffer := logger.NewLogBuffer(500)
	fileCfg := cfg.Logging
	fileCfg.Console = false
	fileLogger, err := logger.New(&fileCfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	appLogger := logger.Tee(fileLogger, logger.NewBuffered(logBuffer, cfg.Logging.Debug))
	defer func() {
		_ = logger.Sync(appLogger)
	}()

	appLogger.Info("🚀 Starting bonding curve TUI")

	handler := ui.NewRecoveryHandler(appLogger, func() (tea.Model, error) {
		return ui.NewModel(cfg.Curve, *orderSize, appLogger, logBuffer)
	}, tea.WithAltScreen())

	if err := handler.Run(); err != nil {
		appLogger.Error("💥 TUI application failed", zap.Error(err))
		return
	}
	appLogger.Info("🛑 TUI closed")
}
