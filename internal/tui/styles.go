package tui

import "github.com/charmbracelet/lipgloss"

var (
	magentaColor = lipgloss.Color("#F472B6")
	yellowColor  = lipgloss.Color("#FBBF24")
	greenColor   = lipgloss.Color("#10B981")
	cyanColor    = lipgloss.Color("#22D3EE")
	redColor     = lipgloss.Color("#F87171")
	mutedColor   = lipgloss.Color("#9CA3AF")
	brownColor   = lipgloss.Color("#B45309")

	frameStyle   = lipgloss.NewStyle().PaddingLeft(10).PaddingTop(2)
	messageStyle = lipgloss.NewStyle().PaddingLeft(6).MarginTop(1)

	eggStyle    = messageStyle.Foreground(magentaColor)
	crackStyle  = messageStyle.Foreground(yellowColor)
	idleStyle   = messageStyle.Foreground(magentaColor)
	hungryStyle = messageStyle.Foreground(yellowColor)
	sickStyle   = messageStyle.Foreground(greenColor)
	deadStyle   = messageStyle.Foreground(redColor).Faint(true)
	infoStyle   = messageStyle.Foreground(cyanColor)
	flashStyle  = messageStyle.Foreground(greenColor).Bold(true)
	poopStyle   = lipgloss.NewStyle().Foreground(brownColor)
	footerStyle = lipgloss.NewStyle().Foreground(mutedColor).PaddingLeft(2).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(redColor).PaddingLeft(2)

	deathBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(redColor).
			Padding(0, 2).
			MarginLeft(2).
			MarginTop(1)

	rebirthBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(greenColor).
			Padding(0, 2).
			MarginLeft(2).
			MarginTop(1)

	boxTitleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)
