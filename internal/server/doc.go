// Package server implements an LED controller emulator.
//
// The emulator serves the same wire protocol a real controller does, so the
// CLI and the interactive screen can be developed and tested without
// hardware:
//
//	GET  /api     -> 200 {"mode":"solid","color":"#ff00ff","brightness":100}
//	POST /api     -> 200 {"received":{"mode":...,"color":...,"brightness":...}}
//	GET  /api/ws  -> websocket; the current configuration, then one message
//	                 per accepted POST
//
// POST bodies are validated as strictly as the client validates responses.
// A body with a missing field or an invalid value is answered with 400.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Port: 5000, Advertise: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT or SIGTERM
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// HTTPS is enabled by passing CertPath and KeyPath. Advertise publishes the
// emulator as a "_ledctl._tcp" mDNS service so `ledctl scan` can find it.
//
// # Graceful Shutdown
//
// On shutdown the mDNS record is withdrawn, push channel clients receive a
// "going away" close frame, and in-flight HTTP requests are drained.
package server
