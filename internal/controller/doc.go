// Package controller holds the local LED configuration that the interactive
// screen and the CLI commands edit.
//
// A Controller owns one DeviceConfig plus loading and error flags. Edits
// (SetMode, SetColor, SetBrightness) are local and synchronous; Initialize and
// Submit talk to the LED controller through a Syncer and replace the local
// configuration wholesale with whatever the controller answers.
//
// Ordering:
//
//   - Every request takes a sequence number when it is issued. A response is
//     applied only if no newer request was issued after it, so a slow initial
//     fetch can never overwrite the result of a later submit.
//   - Only one Submit may be outstanding; a second one returns
//     ErrSubmitInFlight without touching the network.
//   - Loading stays true while any request is outstanding.
//
// Failures are recorded in State.LastError and can be re-run with Retry.
package controller
