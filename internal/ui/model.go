package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/chart"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/report"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/ui/style"
)

const (
	defaultWidth  = 100
	defaultHeight = 40
)

// Model is an interactive session over one market maker.
type Model struct {
	cfg       curve.Config
	orderSize float64
	mm        *curve.MarketMaker

	logger *zap.Logger
	keys   KeyMap
	help   help.Model
	logs   *logPanel

	// tokens minted by the last buy that have not been sold yet
	lastBought float64
	lastStep   *simulation.Step
	steps      int
	trace      []simulation.Point
	halt       error

	width  int
	height int
}

// NewModel builds a session with a fresh market maker. buf may be nil.
func NewModel(cfg curve.Config, orderSize float64, log *zap.Logger, buf *logger.LogBuffer) (*Model, error) {
	if orderSize <= 0 {
		return nil, fmt.Errorf("order size must be positive, got %v", orderSize)
	}

	m := &Model{
		cfg:       cfg,
		orderSize: orderSize,
		logger:    log.Named("ui"),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logs:      newLogPanel(buf),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) reset() error {
	mm, err := curve.New(m.cfg)
	if err != nil {
		return fmt.Errorf("failed to create market maker: %w", err)
	}

	m.mm = mm
	m.lastBought = 0
	m.lastStep = nil
	m.steps = 0
	m.halt = nil
	m.trace = []simulation.Point{{Supply: mm.TokenSupply(), Price: mm.TokenPrice()}}

	m.logger.Info("Market maker reset", zap.Stringer("state", mm.State()))
	return nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logs.SetSize(msg.Width, 5)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.ToggleLogs):
			m.logs.Toggle()
		case key.Matches(msg, m.keys.Reset):
			if err := m.reset(); err != nil {
				m.logger.Error("Reset failed", zap.Error(err))
			}
		case key.Matches(msg, m.keys.Buy):
			m.buy()
		case key.Matches(msg, m.keys.Sell):
			m.sell()
		}
	}

	return m, nil
}

func (m *Model) buy() {
	if m.halt != nil {
		return
	}

	res := m.mm.Buy(m.orderSize)
	if m.checkHalt(res.Err()) {
		return
	}

	m.lastBought = res.TokensOut
	m.record(simulation.Step{
		Side:           simulation.SideBuy,
		Tokens:         res.TokensOut,
		Reserve:        res.ReserveIn,
		EffectivePrice: res.EffectivePrice,
	})
}

func (m *Model) sell() {
	if m.halt != nil {
		return
	}

	tokens := m.lastBought
	if tokens == 0 {
		tokens = m.orderSize
	}

	res := m.mm.Sell(tokens)
	if m.checkHalt(res.Err()) {
		return
	}

	m.lastBought = 0
	m.record(simulation.Step{
		Side:           simulation.SideSell,
		Tokens:         res.TokensIn,
		Reserve:        res.ReserveOut,
		EffectivePrice: res.EffectivePrice,
	})
}

// checkHalt freezes trading once a trade or the resulting state is undefined.
func (m *Model) checkHalt(tradeErr error) bool {
	err := tradeErr
	if err == nil {
		err = m.mm.State().Err()
	}
	if err == nil {
		return false
	}

	m.halt = err
	m.logger.Warn("Trading halted, press r to reset", zap.Error(err))
	return true
}

func (m *Model) record(step simulation.Step) {
	step.Index = m.steps
	step.State = m.mm.State()
	m.steps++
	m.lastStep = &step
	m.trace = append(m.trace, simulation.Point{
		Supply: step.State.TokenSupply,
		Price:  step.State.TokenPrice,
	})

	m.logger.Info("Order executed",
		zap.String("side", string(step.Side)),
		zap.Float64("tokens", step.Tokens),
		zap.Float64("reserve", step.Reserve),
		zap.Float64("token_price", step.State.TokenPrice))
}

// View implements tea.Model
func (m *Model) View() string {
	sections := []string{
		style.TitleStyle.Render("Bonding Curve Market Maker"),
		m.statusLine(),
	}

	panels := []string{report.RenderStatus(m.mm.State())}
	if m.lastStep != nil {
		panels = append(panels, report.RenderStep(*m.lastStep))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, panels...))

	if m.halt != nil {
		sections = append(sections, style.ErrorStyle.Render("halted: "+m.halt.Error()))
	}

	prices := make([]float64, len(m.trace))
	for i, p := range m.trace {
		prices[i] = p.Price
	}
	spark := chart.NewSparkline(max(m.width-20, 10)).SetData(prices).ShowText(true)
	sections = append(sections, style.LabelStyle.Render("Price ")+spark.View())

	plotHeight := max(m.height-30, 6)
	plot := chart.NewPlot(max(m.width-16, 20), plotHeight)
	sections = append(sections, plot.RenderTrace(m.trace))

	if logs := m.logs.View(); logs != "" {
		sections = append(sections, logs)
	}
	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n")
}

func (m *Model) statusLine() string {
	next := "sell " + fmt.Sprintf("%g", m.orderSize) + " tokens"
	if m.lastBought > 0 {
		next = fmt.Sprintf("sell %g tokens from last buy", m.lastBought)
	}
	return style.MutedStyle.Render(fmt.Sprintf(
		"orders: %d | buy size: %g | formula: %s | next s: %s",
		m.steps, m.orderSize, m.mm.SellFormula(), next))
}

// State returns the current market maker state.
func (m *Model) State() curve.State {
	return m.mm.State()
}
