package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledctl/internal/version"
)

// AppName is shown in the container header
const AppName = "LEDCTL"

const (
	DefaultWidth  = 80
	DefaultHeight = 24
	MinWidth      = 60
)

var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red
	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = PrimaryColor
	HighlightColor = SecondaryColor
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(12)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true).
				Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedOptionStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	OptionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2)

	FocusedButtonStyle = ButtonStyle.
				BorderForeground(HighlightColor).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	WarningLineStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	SelectedListItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)
)

// RenderTitle renders a screen title
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderField renders a labeled row, highlighting the label when focused
func RenderField(label, value string, focused bool) string {
	cursor := "  "
	style := LabelStyle
	if focused {
		cursor = SelectedOptionStyle.Render("→ ")
		style = FocusedLabelStyle
	}
	return cursor + style.Render(label) + value
}

// RenderApplicationContainer wraps every screen: a header with the app name
// and version, the content, and the help footer pinned below it.
func RenderApplicationContainer(content, footer string, width, height int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if width < MinWidth {
		width = MinWidth
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Foreground(TextColor).Bold(true).Render(AppName+" "+version.Version),
	)

	styledHeader := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1).
		Render(header)

	styledFooter := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1).
		Render(footer)

	styledContent := lipgloss.NewStyle().
		Width(width-4).
		Padding(1, 1).
		Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, styledHeader, styledContent, styledFooter)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
