package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

// Config holds the emulator configuration
type Config struct {
	Host      string
	Port      int
	Path      string // Configuration resource path (default /api)
	CertPath  string // Serve HTTPS when both CertPath and KeyPath are set
	KeyPath   string
	Advertise bool   // Publish the emulator over mDNS
	Instance  string // mDNS instance name

	// Initial is the configuration reported before the first POST
	Initial *ledconfig.DeviceConfig

	// Latency delays every response, useful for exercising slow controllers
	Latency time.Duration
}

// Server emulates an LED controller's HTTP interface
type Server struct {
	config     *Config
	tlsConfig  *tls.Config
	device     *deviceState
	hub        *hub
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Path == "" {
		config.Path = ledconfig.DefaultPath
	}
	if !strings.HasPrefix(config.Path, "/") {
		return nil, fmt.Errorf("path must start with '/': %q", config.Path)
	}
	config.Path = strings.TrimSuffix(config.Path, "/")
	if config.Path == "" {
		config.Path = ledconfig.DefaultPath
	}
	if config.Instance == "" {
		config.Instance = "ledctl emulator"
	}

	initial := ledconfig.DefaultDeviceConfig()
	if config.Initial != nil {
		if errs := ledconfig.ValidateDeviceConfig(config.Initial); len(errs) > 0 {
			return nil, fmt.Errorf("invalid initial configuration: %w", errs[0])
		}
		initial = *config.Initial
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	return &Server{
		config:    config,
		tlsConfig: tlsConfig,
		device:    newDeviceState(initial),
		hub:       newHub(),
	}, nil
}

// Addr returns the listen address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Listen opens the (optionally TLS) listener
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	var (
		listener net.Listener
		err      error
	)
	if s.tlsConfig != nil {
		listener, err = tls.Listen("tcp", addr, s.tlsConfig)
	} else {
		listener, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Serve handles requests until ctx is done, then shuts down gracefully.
// Listen is called first if it has not been already.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
		logging.Info("TLS Configuration", zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("LED controller emulator listening",
		zap.String("addr", s.listener.Addr().String()),
		zap.String("scheme", scheme),
		zap.String("path", s.config.Path),
		zap.String("config", s.device.Get().Summary()),
	)

	if s.config.Advertise {
		port := s.config.Port
		if tcpAddr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			port = tcpAddr.Port
		}
		advert, err := discovery.Advertise(s.config.Instance, port, scheme, s.config.Path)
		if err != nil {
			logging.Warn("mDNS advertisement failed, continuing without it", zap.Error(err))
		} else {
			s.advert = advert
		}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Start serves until SIGINT or SIGTERM
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logging.Info("Shutdown signal received, stopping emulator...")
	}()

	return s.Serve(ctx)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down emulator...")

	s.advert.Shutdown()

	// Hijacked websocket connections are not tracked by http.Server
	s.hub.closeAll()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.hub.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()

	return err
}

// GetActiveConnections returns the number of connected push channel clients
func (s *Server) GetActiveConnections() int {
	return s.hub.count()
}

// Current returns the emulated device configuration
func (s *Server) Current() ledconfig.DeviceConfig {
	return s.device.Get()
}
