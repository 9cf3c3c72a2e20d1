// internal/chart/plot.go
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui/style"
)

const (
	pointRune = '●'
	lineRune  = '·'
	// width of the y tick labels column
	tickWidth = 10
)

// Plot renders an XY series as a text chart with axes and ticks.
type Plot struct {
	width  int
	height int
	title  string
	xLabel string
	yLabel string
	color  lipgloss.Color
}

// NewPlot creates a plot whose drawing area is width x height cells.
func NewPlot(width, height int) *Plot {
	return &Plot{
		width:  max(width, 2),
		height: max(height, 2),
		title:  "Market Maker",
		xLabel: "Token Supply",
		yLabel: "Price",
		color:  style.DefaultPalette().Primary,
	}
}

// SetTitle sets the chart title
func (p *Plot) SetTitle(title string) *Plot {
	p.title = title
	return p
}

// SetLabels sets the axis labels
func (p *Plot) SetLabels(x, y string) *Plot {
	p.xLabel = x
	p.yLabel = y
	return p
}

// SetColor sets the series color
func (p *Plot) SetColor(color lipgloss.Color) *Plot {
	p.color = color
	return p
}

// RenderTrace plots token supply against token price.
func (p *Plot) RenderTrace(trace []simulation.Point) string {
	xs := make([]float64, len(trace))
	ys := make([]float64, len(trace))
	for i, pt := range trace {
		xs[i] = pt.Supply
		ys[i] = pt.Price
	}
	return p.Render(xs, ys)
}

// Render plots ys against xs. Consecutive points are joined; non-finite
// points are skipped and break the line.
func (p *Plot) Render(xs, ys []float64) string {
	n := min(len(xs), len(ys))
	xMin, xMax := minMax(xs[:n])
	yMin, yMax := minMax(ys[:n])

	var sb strings.Builder
	sb.WriteString(style.TitleStyle.Render(center(p.title, tickWidth+2+p.width)))
	sb.WriteString("\n")
	sb.WriteString(style.LabelStyle.Render(p.yLabel))
	sb.WriteString("\n")

	if math.IsNaN(xMin) || math.IsNaN(yMin) {
		sb.WriteString(style.MutedStyle.Render("no data"))
		return sb.String()
	}

	xMin, xMax = widen(xMin, xMax)
	yMin, yMax = widen(yMin, yMax)

	grid := p.grid(xs[:n], ys[:n], xMin, xMax, yMin, yMax)
	series := lipgloss.NewStyle().Foreground(p.color)

	for row, cells := range grid {
		label := ""
		switch row {
		case 0:
			label = formatTick(yMax)
		case len(grid) / 2:
			label = formatTick(yMax - (yMax-yMin)*float64(row)/float64(len(grid)-1))
		case len(grid) - 1:
			label = formatTick(yMin)
		}
		sb.WriteString(style.MutedStyle.Render(fmt.Sprintf("%*s ┤", tickWidth, label)))
		sb.WriteString(series.Render(string(cells)))
		sb.WriteString("\n")
	}

	sb.WriteString(style.MutedStyle.Render(strings.Repeat(" ", tickWidth) + " └" + strings.Repeat("─", p.width)))
	sb.WriteString("\n")

	left := formatTick(xMin)
	right := formatTick(xMax)
	gap := max(p.width-len(left)-len(right), 1)
	sb.WriteString(style.MutedStyle.Render(strings.Repeat(" ", tickWidth+2) + left + strings.Repeat(" ", gap) + right))
	sb.WriteString("\n")
	sb.WriteString(style.LabelStyle.Render(center(p.xLabel, tickWidth+2+p.width)))

	return sb.String()
}

// grid rasterizes the series into height rows of width cells, row 0 on top.
func (p *Plot) grid(xs, ys []float64, xMin, xMax, yMin, yMax float64) [][]rune {
	grid := make([][]rune, p.height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", p.width))
	}

	col := func(x float64) int {
		return int(math.Round((x - xMin) / (xMax - xMin) * float64(p.width-1)))
	}
	row := func(y float64) int {
		return p.height - 1 - int(math.Round((y-yMin)/(yMax-yMin)*float64(p.height-1)))
	}

	prevOK := false
	var prevCol, prevRow int
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			prevOK = false
			continue
		}
		c, r := col(xs[i]), row(ys[i])
		if prevOK {
			drawLine(grid, prevCol, prevRow, c, r)
		}
		prevCol, prevRow, prevOK = c, r, true
	}

	// points go on top of the connecting lines
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			grid[row(ys[i])][col(xs[i])] = pointRune
		}
	}

	return grid
}

// drawLine marks the cells between two points (Bresenham).
func drawLine(grid [][]rune, c0, r0, c1, r1 int) {
	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}

	e := dc + dr
	for {
		grid[r0][c0] = lineRune
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// widen gives a flat range some height so it can be scaled.
func widen(lo, hi float64) (float64, float64) {
	if lo != hi {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func formatTick(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
