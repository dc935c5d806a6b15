// Package config manages the ledctl settings file.
//
// The settings file externalizes where the LED controller lives (scheme, host,
// port, path and request timeout), the color swatches offered by the picker,
// and controllers remembered from discovery.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ledctl/config.yaml or $HOME/.config/ledctl/config.yaml
//   - macOS: $HOME/.config/ledctl/config.yaml
//   - Windows: %LOCALAPPDATA%\ledctl\config.yaml
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := ledconfig.NewClientForEndpoint(settings.ControllerEndpoint())
//	client.SetTimeout(settings.Timeout())
//
// Saves are atomic: the file is written to a temporary path and renamed.
package config
