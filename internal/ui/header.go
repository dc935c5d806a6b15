package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is a labeled value shown in a command header or result box.
// Params render in the order given.
type Param struct {
	Key   string
	Value string
}

// Header is the banner printed at the start of a command
type Header struct {
	Title   string  // e.g., "LED CONFIGURATION"
	Command string  // e.g., "ledctl set --color #ff0000"
	Params  []Param // e.g., {"Controller", "http://192.168.100.12:5000/api"}
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the width for rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	sections := []string{titleLine}
	if h.Command != "" {
		sections = append(sections, HeaderCommandStyle.Render(h.Command))
	}

	if len(h.Params) > 0 {
		sections = append(sections, RenderHorizontalDivider(width-6, "─"))
		for _, p := range h.Params {
			sections = append(sections,
				HeaderParamKeyStyle.Render(p.Key+":")+" "+HeaderParamValueStyle.Render(p.Value))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
