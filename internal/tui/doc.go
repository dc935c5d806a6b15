// Package tui implements the interactive LED configuration screen.
//
// The screen is a Bubble Tea program layered on a controller.Controller:
// the model renders controller snapshots and maps keys to controller calls.
// Local edits are synchronous. Initialize, Submit and Retry run in tea.Cmd
// goroutines and report back with an operationDoneMsg; every other state
// change (including configurations pushed over the watch channel) arrives
// through a controller subscription as a stateChangedMsg.
//
// # Screens
//
//   - Discovery: browses mDNS for controllers, or accepts a typed address
//   - Config: mode, color and brightness rows plus a Submit button
//
// # Keys on the configuration screen
//
//	↑/↓      move between rows
//	←/→      change the focused value (mode, swatch, brightness ±5)
//	1-9      pick a swatch
//	enter    edit the color as hex; typing previews, enter commits
//	s        submit
//	r        retry the last failed request
//	q        quit
//
// Usage:
//
//	final, err := tui.Run(tui.Options{Endpoint: ep, Watch: true})
package tui
