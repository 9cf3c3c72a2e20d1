package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui/style"
)

// Spark characters from lowest to highest
var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline represents a one-line graph of a series
type Sparkline struct {
	data     []float64
	width    int
	style    lipgloss.Style
	color    lipgloss.Color
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		data:  make([]float64, 0),
		width: width,
		style: lipgloss.NewStyle(),
		color: style.DefaultPalette().Primary,
	}
}

// SetData replaces the series. Longer series are resampled to the width so
// the whole run stays visible.
func (s *Sparkline) SetData(data []float64) *Sparkline {
	s.data = resample(data, s.width)
	return s
}

// AddDataPoint appends a value, keeping only the last `width` points
func (s *Sparkline) AddDataPoint(value float64) *Sparkline {
	s.data = append(s.data, value)
	if len(s.data) > s.width {
		s.data = s.data[len(s.data)-s.width:]
	}
	return s
}

// SetColor sets the color for the sparkline
func (s *Sparkline) SetColor(color lipgloss.Color) *Sparkline {
	s.color = color
	return s
}

// ShowText enables/disables the trend arrow after the sparkline
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

// View renders the sparkline
func (s *Sparkline) View() string {
	blocks := s.style.Foreground(s.color).Render(s.blocks())
	if !s.showText || len(s.data) == 0 {
		return blocks
	}

	trend := s.GetTrend()
	trendColor := style.DefaultPalette().TextMuted
	switch trend {
	case "↗":
		trendColor = style.DefaultPalette().Success
	case "↘":
		trendColor = style.DefaultPalette().Error
	}
	return blocks + " " + lipgloss.NewStyle().Foreground(trendColor).Render(trend)
}

// blocks creates the spark characters based on data
func (s *Sparkline) blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat("▁", s.width)
	}

	lo, hi := minMax(s.data)
	if math.IsNaN(lo) {
		return strings.Repeat(" ", s.width)
	}

	var result strings.Builder
	for i, value := range s.data {
		if i >= s.width {
			break
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			result.WriteRune(' ')
			continue
		}
		if lo == hi {
			result.WriteRune('▄')
			continue
		}

		normalized := (value - lo) / (hi - lo)
		index := int(normalized * float64(len(sparkChars)-1))
		index = clamp(index, 0, len(sparkChars)-1)
		result.WriteRune(sparkChars[index])
	}

	// Pad with spaces if we have fewer data points than width
	for n := min(len(s.data), s.width); n < s.width; n++ {
		result.WriteRune(' ')
	}

	return result.String()
}

// GetTrend returns the overall trend of the data
func (s *Sparkline) GetTrend() string {
	change := s.GetChangePercent()
	switch {
	case math.Abs(change) < 0.1:
		return "→"
	case change > 0:
		return "↗"
	default:
		return "↘"
	}
}

// GetChangePercent returns the percentage change from first to last data point
func (s *Sparkline) GetChangePercent() float64 {
	if len(s.data) < 2 {
		return 0
	}

	first := s.data[0]
	last := s.data[len(s.data)-1]
	if first == 0 {
		return 0
	}

	return (last - first) / first * 100
}

// resample picks width evenly spaced values, always keeping the last one.
func resample(data []float64, width int) []float64 {
	if width <= 0 || len(data) <= width {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	if width == 1 {
		return []float64{data[len(data)-1]}
	}

	out := make([]float64, width)
	step := float64(len(data)-1) / float64(width-1)
	for i := range out {
		out[i] = data[int(math.Round(float64(i)*step))]
	}
	return out
}

// minMax returns the finite extremes of data, NaN when there are none.
func minMax(data []float64) (float64, float64) {
	lo, hi := math.NaN(), math.NaN()
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
