// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
)

type Config struct {
	Curve     curve.Config     `mapstructure:"curve"`
	Scenarios []ScenarioConfig `mapstructure:"-"`
	Output    OutputConfig     `mapstructure:"output"`
	Logging   logger.Config    `mapstructure:"logging"`
	Workers   int              `mapstructure:"workers"`
}

// ScenarioConfig describes one driver run. A nil Curve runs with the
// top-level curve section; keys a scenario curve leaves out are taken from it.
type ScenarioConfig struct {
	Name      string        `mapstructure:"name"`
	Mode      string        `mapstructure:"mode"`
	Orders    int           `mapstructure:"orders"`
	OrderSize float64       `mapstructure:"order_size"`
	Curve     *curve.Config `mapstructure:"curve"`
}

// scenarioFile is how a scenario is decoded. Pointers tell an explicit zero
// (orders: 0, reserve_balance: 0) apart from a missing key.
type scenarioFile struct {
	Name      string     `mapstructure:"name"`
	Mode      string     `mapstructure:"mode"`
	Orders    *int       `mapstructure:"orders"`
	OrderSize *float64   `mapstructure:"order_size"`
	Curve     *curveFile `mapstructure:"curve"`
}

type curveFile struct {
	ReserveWeight  *float64 `mapstructure:"reserve_weight"`
	TokenSupply    *float64 `mapstructure:"token_supply"`
	ReserveBalance *float64 `mapstructure:"reserve_balance"`
	SellFormula    *string  `mapstructure:"sell_formula"`
}

type OutputConfig struct {
	Dir         string `mapstructure:"dir"`
	Format      string `mapstructure:"format"`
	Export      bool   `mapstructure:"export"`
	Verbosity   string `mapstructure:"verbosity"`
	ChartWidth  int    `mapstructure:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height"`
	// MetricsFile receives a Prometheus textfile dump; empty disables it.
	MetricsFile string `mapstructure:"metrics_file"`
}

const (
	DefaultMode        = "retrace"
	DefaultOrders      = 100
	DefaultOrderSize   = 100.0
	DefaultWorkers     = 4
	DefaultChartWidth  = 72
	DefaultChartHeight = 20
	DefaultOutputDir   = "out"
	DefaultFormat      = "csv"
	DefaultVerbosity   = "summary"

	envPrefix = "BONDING_SIM"
)

var (
	validModes     = []string{"retrace", "chained", "cycles"}
	validFormats   = []string{"csv", "json", "markdown"}
	validVerbosity = []string{"summary", "trades", "quiet"}
)

// LoadConfig reads path (json, yaml or toml by extension) over the defaults.
// An empty path loads defaults and environment overrides only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"curve.reserve_weight":  curve.DefaultReserveWeight,
		"curve.token_supply":    curve.DefaultTokenSupply,
		"curve.reserve_balance": curve.DefaultReserveBalance,
		"curve.sell_formula":    string(curve.SellFormulaConnector),
		"output.dir":            DefaultOutputDir,
		"output.format":         DefaultFormat,
		"output.verbosity":      DefaultVerbosity,
		"output.chart_width":    DefaultChartWidth,
		"output.chart_height":   DefaultChartHeight,
		"output.metrics_file":   "",
		"logging.log_file":      logger.DefaultConfig().LogFile,
		"logging.max_size":      logger.DefaultConfig().MaxSize,
		"logging.max_age":       logger.DefaultConfig().MaxAge,
		"logging.max_backups":   logger.DefaultConfig().MaxBackups,
		"logging.compress":      logger.DefaultConfig().Compress,
		"logging.console":       logger.DefaultConfig().Console,
		"workers":               DefaultWorkers,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var files []scenarioFile
	if err := v.UnmarshalKey("scenarios", &files); err != nil {
		return nil, fmt.Errorf("failed to decode scenarios: %w", err)
	}
	if len(files) == 0 {
		files = []scenarioFile{{Name: DefaultMode}}
	}
	cfg.Scenarios = resolveScenarios(files, cfg.Curve)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration LoadConfig("") yields without any
// environment overrides.
func Default() *Config {
	cfg := &Config{
		Curve: curve.DefaultConfig(),
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			Format:      DefaultFormat,
			Verbosity:   DefaultVerbosity,
			ChartWidth:  DefaultChartWidth,
			ChartHeight: DefaultChartHeight,
		},
		Logging: *logger.DefaultConfig(),
		Workers: DefaultWorkers,
	}
	cfg.Scenarios = resolveScenarios([]scenarioFile{{Name: DefaultMode}}, cfg.Curve)
	return cfg
}

// CurveFor returns the curve configuration a scenario runs with.
func (c *Config) CurveFor(sc ScenarioConfig) curve.Config {
	if sc.Curve != nil {
		return *sc.Curve
	}
	return c.Curve
}

// resolveScenarios fills keys missing from the file with defaults. A scenario
// curve section inherits every key it does not set from the top-level curve.
func resolveScenarios(files []scenarioFile, base curve.Config) []ScenarioConfig {
	scenarios := make([]ScenarioConfig, 0, len(files))
	for i, f := range files {
		sc := ScenarioConfig{
			Name:      f.Name,
			Mode:      f.Mode,
			Orders:    DefaultOrders,
			OrderSize: DefaultOrderSize,
		}
		if sc.Mode == "" {
			sc.Mode = DefaultMode
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("%s-%d", sc.Mode, i+1)
		}
		if f.Orders != nil {
			sc.Orders = *f.Orders
		}
		if f.OrderSize != nil {
			sc.OrderSize = *f.OrderSize
		}
		if f.Curve != nil {
			sc.Curve = inheritCurve(f.Curve, base)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios
}

func inheritCurve(f *curveFile, base curve.Config) *curve.Config {
	c := base
	if f.ReserveWeight != nil {
		c.ReserveWeight = *f.ReserveWeight
	}
	if f.TokenSupply != nil {
		c.TokenSupply = *f.TokenSupply
	}
	if f.ReserveBalance != nil {
		c.ReserveBalance = *f.ReserveBalance
	}
	if f.SellFormula != nil {
		c.SellFormula = curve.SellFormula(*f.SellFormula)
	}
	return &c
}

// Validate re-checks the configuration, for callers that change it after loading.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(cfg *Config) error {
	if err := cfg.Curve.Validate(); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if cfg.Workers <= 0 {
		return errors.New("invalid workers count")
	}

	seen := make(map[string]struct{}, len(cfg.Scenarios))
	for _, sc := range cfg.Scenarios {
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		seen[sc.Name] = struct{}{}

		if !contains(validModes, sc.Mode) {
			return fmt.Errorf("scenario %s: invalid mode %q", sc.Name, sc.Mode)
		}
		if sc.Orders < 0 {
			return fmt.Errorf("scenario %s: invalid orders count", sc.Name)
		}
		if sc.OrderSize <= 0 {
			return fmt.Errorf("scenario %s: order_size must be positive", sc.Name)
		}
		if sc.Curve != nil {
			if err := sc.Curve.Validate(); err != nil {
				return fmt.Errorf("scenario %s curve: %w", sc.Name, err)
			}
		}
	}

	return validateOutput(&cfg.Output)
}

func validateOutput(out *OutputConfig) error {
	if !contains(validFormats, out.Format) {
		return fmt.Errorf("invalid output format %q", out.Format)
	}
	if !contains(validVerbosity, out.Verbosity) {
		return fmt.Errorf("invalid output verbosity %q", out.Verbosity)
	}
	if out.ChartWidth < 10 || out.ChartHeight < 4 {
		return errors.New("chart dimensions too small")
	}
	if out.Export && out.Dir == "" {
		return errors.New("output dir is required for export")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
