package ledconfig

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// swatchNames labels the default swatches for display
var swatchNames = map[string]string{
	"#ff00ff": "magenta",
	"#ff0000": "red",
	"#00ff00": "green",
	"#0000ff": "blue",
	"#ffffff": "white",
	"#ffff00": "yellow",
}

// ColorName returns a friendly name for a swatch color, or "custom".
func ColorName(color string) string {
	if name, ok := swatchNames[strings.ToLower(color)]; ok {
		return name
	}
	return "custom"
}

// EffectiveColor returns the color the strip actually shows: the configured
// color scaled by brightness, or black when the strip is off.
func (dc DeviceConfig) EffectiveColor() string {
	if dc.Mode == ModeOff {
		return "#000000"
	}
	return ScaleColor(dc.Color, dc.Brightness)
}

// ScaleColor dims a "#RRGGBB" color to a brightness percentage by blending it
// toward black in RGB space. Invalid colors are returned unchanged.
func ScaleColor(color string, brightness int) string {
	c, err := colorful.Hex(color)
	if err != nil || ValidateColor(color) != nil {
		return color
	}
	t := float64(ClampBrightness(brightness)) / float64(MaxBrightness)
	black := colorful.Color{}
	return black.BlendRgb(c, t).Clamped().Hex()
}

// Summary returns a one-line summary of the configuration
func (dc DeviceConfig) Summary() string {
	return fmt.Sprintf("%s %s @ %d%%", dc.Mode, dc.Color, dc.Brightness)
}

// String implements fmt.Stringer
func (dc DeviceConfig) String() string {
	return dc.Summary()
}

// FormatCompact returns a compact single-line format suitable for scripting
func (dc DeviceConfig) FormatCompact() string {
	return fmt.Sprintf("mode=%s color=%s brightness=%d", dc.Mode, dc.Color, dc.Brightness)
}

// FormatDetailed returns a multi-line human-readable format
func (dc DeviceConfig) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== LED Configuration ===\n")
	b.WriteString(fmt.Sprintf("Mode:       %s\n", dc.Mode))
	b.WriteString(fmt.Sprintf("Color:      %s (%s)\n", dc.Color, ColorName(dc.Color)))
	b.WriteString(fmt.Sprintf("Brightness: %d%%\n", dc.Brightness))
	b.WriteString(fmt.Sprintf("Output:     %s\n", dc.EffectiveColor()))

	return b.String()
}

// FormatDiff describes which fields differ between two configurations.
// Returns an empty string if they are equal.
func FormatDiff(before, after DeviceConfig) string {
	var changes []string
	if before.Mode != after.Mode {
		changes = append(changes, fmt.Sprintf("mode %s → %s", before.Mode, after.Mode))
	}
	if !strings.EqualFold(before.Color, after.Color) {
		changes = append(changes, fmt.Sprintf("color %s → %s", before.Color, after.Color))
	}
	if before.Brightness != after.Brightness {
		changes = append(changes, fmt.Sprintf("brightness %d%% → %d%%", before.Brightness, after.Brightness))
	}
	return strings.Join(changes, ", ")
}
