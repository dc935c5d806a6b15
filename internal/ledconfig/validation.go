package ledconfig

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// hexColorPattern matches a "#RRGGBB" color
var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateMode checks that m is one of the supported modes.
func ValidateMode(m Mode) error {
	for _, known := range Modes() {
		if m == known {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("mode must be one of %v, got %q", Modes(), string(m)))
}

// ParseMode converts user input (case-insensitive) into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if err := ValidateMode(m); err != nil {
		return "", err
	}
	return m, nil
}

// ValidateColor checks that color is a 6-digit hex string prefixed with "#".
func ValidateColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return NewValidationError(fmt.Sprintf("color must be in #RRGGBB form, got %q", color))
	}
	return nil
}

// NormalizeColor accepts "RRGGBB" or "#RRGGBB" in any case and returns the
// lowercase "#rrggbb" form used by the swatches.
func NormalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	if err := ValidateColor(color); err != nil {
		return "", err
	}
	return strings.ToLower(color), nil
}

// ValidateBrightness checks that brightness is within [0,100].
// Only responses are validated this way; user input is clamped instead.
func ValidateBrightness(brightness int) error {
	if brightness < MinBrightness || brightness > MaxBrightness {
		return NewValidationError(fmt.Sprintf("brightness must be %d-%d, got %d", MinBrightness, MaxBrightness, brightness))
	}
	return nil
}

// ClampBrightness limits brightness to [0,100].
func ClampBrightness(brightness int) int {
	if brightness < MinBrightness {
		return MinBrightness
	}
	if brightness > MaxBrightness {
		return MaxBrightness
	}
	return brightness
}

// ParseBrightness parses a percentage like "75" or "75%" and clamps it.
func ParseBrightness(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewValidationError(fmt.Sprintf("brightness must be an integer, got %q", s))
	}
	return ClampBrightness(v), nil
}

// ValidateDeviceConfig validates a complete configuration.
// Returns a slice of validation errors (empty if valid).
func ValidateDeviceConfig(config *DeviceConfig) []error {
	var errs []error

	if err := ValidateMode(config.Mode); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateColor(config.Color); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateBrightness(config.Brightness); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// ValidateSwatches checks every entry of a swatch list.
func ValidateSwatches(swatches []string) error {
	if len(swatches) == 0 {
		return NewValidationError("swatch list cannot be empty")
	}
	for i, s := range swatches {
		if err := ValidateColor(s); err != nil {
			return fmt.Errorf("swatch %d: %w", i+1, err)
		}
	}
	return nil
}
