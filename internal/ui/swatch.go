package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledctl/internal/ledconfig"
)

// RenderSwatch renders a solid block of the given color. Invalid colors
// render as a muted placeholder.
func RenderSwatch(color string, width int) string {
	if width < 1 {
		width = SwatchWidth
	}
	if ledconfig.ValidateColor(color) != nil {
		return MutedStyle.Render(strings.Repeat("?", width))
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Render(strings.Repeat(" ", width))
}

// RenderBrightnessBar renders brightness as a bar filled with the color
// the strip shows at that level.
func RenderBrightnessBar(config ledconfig.DeviceConfig, width int) string {
	fill := config.EffectiveColor()
	if config.Mode == ledconfig.ModeOff {
		fill = string(MutedColor)
	}
	bar := progress.New(
		progress.WithSolidFill(fill),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(config.Brightness) / float64(ledconfig.MaxBrightness))
}

// RenderConfigCard renders a configuration with swatches for the chosen
// color and the resulting output color.
func RenderConfigCard(config ledconfig.DeviceConfig) string {
	rows := []string{
		ResultKeyStyle.Render("Mode:") + " " + ResultValueStyle.Render(config.Mode.String()),
		ResultKeyStyle.Render("Color:") + " " + RenderSwatch(config.Color, SwatchWidth) + " " +
			ResultValueStyle.Render(fmt.Sprintf("%s (%s)", config.Color, ledconfig.ColorName(config.Color))),
		ResultKeyStyle.Render("Brightness:") + " " + RenderBrightnessBar(config, 20) + " " +
			ResultValueStyle.Render(fmt.Sprintf("%d%%", config.Brightness)),
		ResultKeyStyle.Render("Output:") + " " + RenderSwatch(config.EffectiveColor(), SwatchWidth) + " " +
			MutedStyle.Render(config.EffectiveColor()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderSwatchRow renders the swatch palette, marking the selected color
func RenderSwatchRow(swatches []string, selected string) string {
	cells := make([]string, 0, len(swatches))
	for _, s := range swatches {
		marker := " "
		if strings.EqualFold(s, selected) {
			marker = ChangeMarker
		}
		cells = append(cells, RenderSwatch(s, SwatchWidth)+marker)
	}
	return strings.Join(cells, " ")
}
