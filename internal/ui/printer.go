package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
)

// Printer writes styled components to an output stream. Commands print
// through a Printer rather than fmt so output width follows the terminal.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer for w. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	p.Println(r.SetWidth(p.width).Render())
}

// PrintError prints a failure box for err with troubleshooting tips
func (p *Printer) PrintError(err error) {
	p.PrintResult(NewDeviceErrorResult(err))
}

// PrintConfig prints a configuration card
func (p *Printer) PrintConfig(config ledconfig.DeviceConfig) {
	p.Println(lipgloss.NewStyle().PaddingLeft(2).Render(RenderConfigCard(config)))
}

// PrintDevices prints discovered controllers as a table
func (p *Printer) PrintDevices(devices []*discovery.Device) {
	if len(devices) == 0 {
		p.Println(MutedStyle.Render("  No LED controllers found"))
		return
	}

	rows := [][]string{{"INSTANCE", "ADDRESS", "ENDPOINT"}}
	for _, d := range devices {
		rows = append(rows, []string{d.Instance, fmt.Sprintf("%s:%d", d.IP, d.Port), d.Endpoint().URL()})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			padded := cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if n == 0 {
				padded = TableHeaderStyle.Render(padded)
			}
			cells[i] = padded
		}
		p.Println("  " + strings.Join(cells, "   "))
	}
}
