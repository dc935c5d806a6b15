package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

// maxRequestSize bounds POST bodies
const maxRequestSize = 64 << 10

// deviceState is the emulated controller's current configuration
type deviceState struct {
	mu     sync.RWMutex
	config ledconfig.DeviceConfig
}

func newDeviceState(initial ledconfig.DeviceConfig) *deviceState {
	return &deviceState{config: initial}
}

func (d *deviceState) Get() ledconfig.DeviceConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config
}

func (d *deviceState) Set(config ledconfig.DeviceConfig) {
	d.mu.Lock()
	d.config = config
	d.mu.Unlock()
}

// pushResponse mirrors the controller's POST answer
type pushResponse struct {
	Received ledconfig.DeviceConfig `json:"received"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the emulator's HTTP handler:
//
//	GET  {path}     current configuration
//	POST {path}     apply configuration, answer {"received": ...}
//	GET  {path}/ws  websocket push channel
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.config.Path, s.handleGet)
	mux.HandleFunc("POST "+s.config.Path, s.handlePost)
	mux.HandleFunc("GET "+s.config.Path+"/ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	logging.LogRequest(r.Method, r.URL.Path, nil)
	if !s.delay(r) {
		return
	}
	writeJSON(w, http.StatusOK, s.device.Get())
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}
	logging.LogRequest(r.Method, r.URL.Path, body)

	// Same strictness as the client: every field present and valid
	config, err := ledconfig.ParseDeviceConfig(body)
	if err != nil {
		logging.Warn("Rejected configuration",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ledconfig.GetShortErrorMessage(err) + ": " + err.Error()})
		return
	}

	if !s.delay(r) {
		return
	}

	before := s.device.Get()
	s.device.Set(*config)
	logging.Info("Configuration applied",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("config", config.Summary()),
		zap.String("changes", ledconfig.FormatDiff(before, *config)),
	)

	s.broadcast(*config)
	writeJSON(w, http.StatusOK, pushResponse{Received: *config})
}

// delay waits for the configured latency. It returns false if the client
// went away in the meantime.
func (s *Server) delay(r *http.Request) bool {
	if s.config.Latency <= 0 {
		return true
	}
	timer := time.NewTimer(s.config.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
