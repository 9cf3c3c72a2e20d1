package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2)

	BuyPanelStyle = PanelStyle.
			BorderForeground(palette.Buy)

	SellPanelStyle = PanelStyle.
			BorderForeground(palette.Sell)
)

// Text styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)
)

// SideStyle returns the accent style for a buy or sell.
func SideStyle(buy bool) lipgloss.Style {
	if buy {
		return lipgloss.NewStyle().Foreground(palette.Buy).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(palette.Sell).Bold(true)
}
