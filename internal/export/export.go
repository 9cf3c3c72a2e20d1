package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/report"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

// Format represents the export file format
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Options configures the export behavior
type Options struct {
	Format     Format
	OutputDir  string
	SideFilter simulation.Side // empty exports both sides
}

// Exporter writes simulation runs to files
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates a new run exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ErrNoSteps is returned when a run has no steps left after filtering, e.g. a
// run that halted on its first order.
var ErrNoSteps = errors.New("no steps match the export criteria")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CSVHeaders returns the column names of a step row.
func CSVHeaders() []string {
	return []string{
		"index", "side", "tokens", "reserve", "effective_price",
		"token_supply", "reserve_balance", "token_price", "reserve_weight",
	}
}

// stepToCSV converts a step to a CSV row
func stepToCSV(step simulation.Step) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(step.Index),
		string(step.Side),
		f(step.Tokens),
		f(step.Reserve),
		f(step.EffectivePrice),
		f(step.State.TokenSupply),
		f(step.State.ReserveBalance),
		f(step.State.TokenPrice),
		f(step.State.ReserveWeight),
	}
}

// ExportRun writes the run's steps and returns the created file path.
func (e *Exporter) ExportRun(res *simulation.Result, options Options) (string, error) {
	steps := filterSteps(res.Steps, options.SideFilter)
	if len(steps) == 0 {
		return "", ErrNoSteps
	}

	filename := e.generateFilename(res.Scenario.Name, options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = exportToCSV(steps, outputPath)
	case FormatJSON:
		err = e.exportToJSON(res, steps, outputPath)
	case FormatMarkdown:
		err = os.WriteFile(outputPath, []byte(report.RenderMarkdown(res)), 0644)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	e.logger.Info("Run exported",
		zap.String("file", outputPath),
		zap.String("run_id", res.RunID),
		zap.Int("count", len(steps)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

func filterSteps(steps []simulation.Step, side simulation.Side) []simulation.Step {
	if side == "" {
		return steps
	}

	var filtered []simulation.Step
	for _, step := range steps {
		if step.Side == side {
			filtered = append(filtered, step)
		}
	}
	return filtered
}

// generateFilename builds <scenario>[_<side>]_<timestamp>.<ext>
func (e *Exporter) generateFilename(scenario string, options Options) string {
	timestamp := e.now().Format("20060102_150405")

	prefix := strings.Trim(unsafeName.ReplaceAllString(scenario, "_"), "_")
	if prefix == "" {
		prefix = "run"
	}
	if options.SideFilter != "" {
		prefix += "_" + string(options.SideFilter)
	}

	ext := string(options.Format)
	if options.Format == FormatMarkdown {
		ext = "md"
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, ext)
}

func exportToCSV(steps []simulation.Step, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, step := range steps {
		if err := writer.Write(stepToCSV(step)); err != nil {
			return fmt.Errorf("failed to write step: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// runDocument is the JSON layout of an exported run
type runDocument struct {
	ExportTime time.Time          `json:"export_time"`
	RunID      string             `json:"run_id"`
	Scenario   string             `json:"scenario"`
	Mode       simulation.Mode    `json:"mode"`
	StepCount  int                `json:"step_count"`
	Halt       string             `json:"halt,omitempty"`
	Summary    simulation.Summary `json:"summary"`
	Steps      []simulation.Step  `json:"steps"`
}

func (e *Exporter) exportToJSON(res *simulation.Result, steps []simulation.Step, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	doc := runDocument{
		ExportTime: e.now(),
		RunID:      res.RunID,
		Scenario:   res.Scenario.Name,
		Mode:       res.Scenario.Mode,
		StepCount:  len(steps),
		Summary:    res.Summary(),
		Steps:      steps,
	}
	if res.Halted() {
		doc.Halt = res.Halt.Error()
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
