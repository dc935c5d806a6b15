package ledconfig

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mode is the operating state of the LED strip
type Mode string

const (
	// ModeSolid lights the strip with a single color
	ModeSolid Mode = "solid"
	// ModeOff turns the strip off
	ModeOff Mode = "off"
)

// Modes returns the supported modes in picker order
func Modes() []Mode {
	return []Mode{ModeSolid, ModeOff}
}

// String implements fmt.Stringer
func (m Mode) String() string {
	return string(m)
}

// Brightness bounds (percent)
const (
	MinBrightness = 0
	MaxBrightness = 100
)

// DefaultSwatches are the predefined colors offered as shortcuts in the color
// picker. The first swatch is the compiled-in default color.
var DefaultSwatches = []string{
	"#ff00ff",
	"#ff0000",
	"#00ff00",
	"#0000ff",
	"#ffffff",
	"#ffff00",
}

// DeviceConfig is the desired LED behavior exchanged with the controller.
//
// GET /api returns it unwrapped; POST /api accepts it as the request body and
// answers with {"received": DeviceConfig}.
type DeviceConfig struct {
	Mode       Mode   `json:"mode"`
	Color      string `json:"color"`      // "#RRGGBB"
	Brightness int    `json:"brightness"` // 0-100
}

// DefaultDeviceConfig returns the configuration used before any network
// response arrives: solid mode, first swatch, full brightness.
func DefaultDeviceConfig() DeviceConfig {
	return NewDeviceConfig(DefaultSwatches)
}

// NewDeviceConfig returns the default configuration for a custom swatch list.
// An empty or invalid first swatch falls back to DefaultSwatches[0].
func NewDeviceConfig(swatches []string) DeviceConfig {
	color := DefaultSwatches[0]
	if len(swatches) > 0 && ValidateColor(swatches[0]) == nil {
		color = swatches[0]
	}
	return DeviceConfig{
		Mode:       ModeSolid,
		Color:      color,
		Brightness: MaxBrightness,
	}
}

// wireConfig mirrors DeviceConfig with pointer fields so that an absent field
// can be told apart from a zero value.
type wireConfig struct {
	Mode       *string `json:"mode"`
	Color      *string `json:"color"`
	Brightness *int    `json:"brightness"`
}

// pushResponse is the body returned by POST /api
type pushResponse struct {
	Received *wireConfig `json:"received"`
}

// toDeviceConfig checks that every field is present and valid
func (w *wireConfig) toDeviceConfig() (*DeviceConfig, error) {
	if w == nil {
		return nil, NewProtocolError("configuration object is missing", nil)
	}

	var missing []string
	if w.Mode == nil {
		missing = append(missing, "mode")
	}
	if w.Color == nil {
		missing = append(missing, "color")
	}
	if w.Brightness == nil {
		missing = append(missing, "brightness")
	}
	if len(missing) > 0 {
		return nil, NewProtocolError(fmt.Sprintf("required field(s) missing: %v", missing), nil)
	}

	config := &DeviceConfig{
		Mode:       Mode(*w.Mode),
		Color:      *w.Color,
		Brightness: *w.Brightness,
	}

	if errs := ValidateDeviceConfig(config); len(errs) > 0 {
		return nil, NewProtocolError("invalid configuration in response", errors.Join(errs...))
	}

	return config, nil
}

// ParseDeviceConfig parses a bare DeviceConfig body (GET /api).
func ParseDeviceConfig(data []byte) (*DeviceConfig, error) {
	var w *wireConfig
	if err := decodeJSON(data, &w); err != nil {
		return nil, err
	}
	return w.toDeviceConfig()
}

// ParsePushResponse parses a {"received": DeviceConfig} body (POST /api) and
// returns the nested configuration.
func ParsePushResponse(data []byte) (*DeviceConfig, error) {
	var resp *pushResponse
	if err := decodeJSON(data, &resp); err != nil {
		return nil, err
	}
	if resp == nil || resp.Received == nil {
		return nil, NewProtocolError("response has no \"received\" object", nil)
	}
	return resp.Received.toDeviceConfig()
}

// decodeJSON unmarshals data, classifying a body that is not JSON at all as a
// network-level failure and a JSON body of the wrong shape as a protocol error.
func decodeJSON(data []byte, v any) error {
	if !json.Valid(data) {
		return NewMalformedBodyError("response body is not valid JSON")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return NewProtocolError("response JSON has unexpected shape", err)
	}
	return nil
}
