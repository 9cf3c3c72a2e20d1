package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/curve"
	"github.com/rovshanmuradov/bonding-curve-sim/internal/logger"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, cfg curve.Config) *Model {
	t.Helper()
	m, err := NewModel(cfg, 100, zap.NewNop(), nil)
	require.NoError(t, err)
	return m
}

func press(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(keyPress(r))
	return cmd
}

func TestModel_BuyThenSellLastBuy(t *testing.T) {
	m := newTestModel(t, curve.DefaultConfig())

	press(m, 'b')
	state := m.State()
	assert.InDelta(t, 1183.2159566199232, state.TokenSupply, 1e-9)
	assert.InDelta(t, 350.0, state.ReserveBalance, 1e-9)
	assert.InDelta(t, 183.2159566199232, m.lastBought, 1e-9)
	require.NotNil(t, m.lastStep)
	assert.Equal(t, 0, m.lastStep.Index)

	press(m, 's')
	state = m.State()
	assert.InDelta(t, 1000.0, state.TokenSupply, 1e-9)
	assert.Zero(t, m.lastBought)
	assert.Equal(t, 1, m.lastStep.Index)
	assert.Len(t, m.trace, 3)
}

func TestModel_SellWithoutBuyUsesOrderSize(t *testing.T) {
	m := newTestModel(t, curve.DefaultConfig())

	press(m, 's')
	state := m.State()
	assert.InDelta(t, 900.0, state.TokenSupply, 1e-9)
	assert.InDelta(t, 197.5, state.ReserveBalance, 1e-9)
	assert.InDelta(t, 52.5, m.lastStep.Reserve, 1e-9)
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t, curve.DefaultConfig())

	press(m, 'b')
	press(m, 'b')
	press(m, 'r')

	assert.Equal(t, curve.State{
		ReserveWeight:  0.5,
		TokenSupply:    1000,
		ReserveBalance: 250,
		TokenPrice:     0.5,
	}, m.State())
	assert.Nil(t, m.lastStep)
	assert.Len(t, m.trace, 1)
}

func TestModel_HaltsOnUndefinedResult(t *testing.T) {
	cfg := curve.DefaultConfig()
	cfg.ReserveBalance = 0
	m := newTestModel(t, cfg)

	press(m, 'b')
	require.Error(t, m.halt)
	assert.True(t, curve.IsUndefinedResult(m.halt))
	assert.Contains(t, m.View(), "halted")

	// further orders are ignored until reset
	press(m, 's')
	assert.Nil(t, m.lastStep)

	press(m, 'r')
	assert.NoError(t, m.halt)
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := newTestModel(t, curve.DefaultConfig())

	assert.False(t, m.help.ShowAll)
	press(m, '?')
	assert.True(t, m.help.ShowAll)

	assert.True(t, m.logs.visible)
	press(m, 'l')
	assert.False(t, m.logs.visible)

	cmd := press(m, 'q')
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	buf := logger.NewLogBuffer(10)
	m, err := NewModel(curve.DefaultConfig(), 100, logger.NewBuffered(buf, false), buf)
	require.NoError(t, err)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	press(m, 'b')

	view := m.View()
	assert.Contains(t, view, "MARKET-MAKER STATUS")
	assert.Contains(t, view, "BUY ORDER #1")
	assert.Contains(t, view, "Market Maker")
	assert.Contains(t, view, "Order executed")
}

func TestNewModel_Errors(t *testing.T) {
	_, err := NewModel(curve.DefaultConfig(), 0, zap.NewNop(), nil)
	assert.Error(t, err)

	_, err = NewModel(curve.Config{ReserveWeight: 2, TokenSupply: 1}, 100, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestRecoveryHandler(t *testing.T) {
	calls := 0
	rh := NewRecoveryHandler(zap.NewNop(), func() (tea.Model, error) {
		calls++
		panic("boom")
	})
	rh.restartDelay = 0

	err := rh.Run()
	assert.ErrorIs(t, err, ErrTooManyRestarts)
	assert.Equal(t, rh.maxRestarts+1, calls)

	calls = 0
	buildErr := errors.New("bad config")
	rh = NewRecoveryHandler(zap.NewNop(), func() (tea.Model, error) {
		calls++
		return nil, buildErr
	})
	err = rh.Run()
	assert.ErrorIs(t, err, buildErr)
	assert.NotErrorIs(t, err, ErrTooManyRestarts)
	assert.Equal(t, 1, calls, "ordinary errors are not retried")
}
