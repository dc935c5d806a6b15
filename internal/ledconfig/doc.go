// Package ledconfig provides the data model and HTTP client for an LED
// controller's configuration endpoint.
//
// The controller exposes a single JSON resource:
//
//	GET  /api  -> {"mode":"solid","color":"#ff00ff","brightness":75}
//	POST /api  <- {"mode":"off","color":"#00ff00","brightness":50}
//	           -> {"received":{"mode":"off","color":"#00ff00","brightness":50}}
//
// # Usage Example
//
//	client := ledconfig.NewClient("192.168.100.12", ledconfig.DefaultPort)
//
//	current, err := client.FetchConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	desired := *current
//	desired.Mode = ledconfig.ModeOff
//	received, err := client.PushConfig(ctx, desired)
//
// # Error Handling
//
// All failures are returned as *DeviceError. Transport failures and bodies that
// are not JSON are network errors (IsNetworkError); JSON with missing fields,
// an unknown mode, a malformed color or an out-of-range brightness is a
// protocol error (IsProtocolError). The client never retries.
//
// # Thread Safety
//
// Client keeps no state between calls and is safe for concurrent use.
package ledconfig
