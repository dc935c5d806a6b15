// Package ui renders the non-interactive output of the ledctl commands.
//
// Components follow a print-once pattern built on Lipgloss: they produce a
// styled string sized to the terminal and never wait for input (Confirm
// being the one exception).
//
//   - Header: command banner with the controller endpoint and parameters
//   - Result: success, failure and warning boxes; failures carry
//     troubleshooting tips derived from the error classification
//   - Config card: mode, color swatch, brightness bar and output color
//   - Device table: controllers found by an mDNS scan
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("LED configuration", "ledctl show",
//	    ui.Param{Key: "Controller", Value: client.Endpoint.URL()})
//	config, err := client.FetchConfig(ctx)
//	if err != nil {
//	    p.PrintError(err)
//	    return err
//	}
//	p.PrintConfig(*config)
//
// Logging is controlled separately through LEDCTL_LOG_LEVEL. When it is
// unset the zap logger is silent so this output stays clean.
package ui
