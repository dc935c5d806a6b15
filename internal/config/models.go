package config

import (
	"fmt"
	"time"

	"github.com/muurk/ledctl/internal/ledconfig"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Default controller address
const (
	DefaultHost = "192.168.100.12"
	DefaultPort = ledconfig.DefaultPort
)

// Settings represents the entire settings file.
type Settings struct {
	Version     int                `yaml:"version"`
	Endpoint    *EndpointSettings  `yaml:"endpoint"`
	Swatches    []string           `yaml:"swatches,omitempty"` // Color picker shortcuts, first is the default color
	Devices     map[string]*Device `yaml:"devices,omitempty"`  // Keyed by mDNS instance name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// EndpointSettings locates the LED controller's configuration resource.
type EndpointSettings struct {
	Scheme         string `yaml:"scheme"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Path           string `yaml:"path"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"` // 0 waits indefinitely
}

// Device remembers a controller found by discovery.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`
	LastHost string    `yaml:"last_host,omitempty"`
	LastPort int       `yaml:"last_port,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverTimeout int  `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	Watch           bool `yaml:"watch"`            // Follow pushed configuration changes in the TUI
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:     CurrentVersion,
		Endpoint:    defaultEndpoint(),
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

func defaultEndpoint() *EndpointSettings {
	return &EndpointSettings{
		Scheme: ledconfig.DefaultScheme,
		Host:   DefaultHost,
		Port:   DefaultPort,
		Path:   ledconfig.DefaultPath,
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
	}
}

// fillDefaults replaces missing sections and zero fields with defaults.
func (s *Settings) fillDefaults() {
	if s.Endpoint == nil {
		s.Endpoint = defaultEndpoint()
	}
	if s.Endpoint.Scheme == "" {
		s.Endpoint.Scheme = ledconfig.DefaultScheme
	}
	if s.Endpoint.Port == 0 {
		s.Endpoint.Port = DefaultPort
	}
	if s.Endpoint.Path == "" {
		s.Endpoint.Path = ledconfig.DefaultPath
	}
	if s.Devices == nil {
		s.Devices = make(map[string]*Device)
	}
	if s.Preferences == nil {
		s.Preferences = defaultPreferences()
	}
	if s.Preferences.DiscoverTimeout <= 0 {
		s.Preferences.DiscoverTimeout = defaultPreferences().DiscoverTimeout
	}
}

// Validate checks values that defaults cannot repair.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if s.Endpoint != nil {
		if s.Endpoint.Scheme != "http" && s.Endpoint.Scheme != "https" {
			return fmt.Errorf("endpoint.scheme must be http or https, got %q", s.Endpoint.Scheme)
		}
		if s.Endpoint.Port < 1 || s.Endpoint.Port > 65535 {
			return fmt.Errorf("endpoint.port out of range: %d", s.Endpoint.Port)
		}
		if s.Endpoint.TimeoutSeconds < 0 {
			return fmt.Errorf("endpoint.timeout_seconds cannot be negative")
		}
	}
	if len(s.Swatches) > 0 {
		if err := ledconfig.ValidateSwatches(s.Swatches); err != nil {
			return fmt.Errorf("swatches: %w", err)
		}
	}
	return nil
}

// ControllerEndpoint converts the endpoint section for the sync client.
func (s *Settings) ControllerEndpoint() ledconfig.Endpoint {
	e := s.Endpoint
	if e == nil {
		e = defaultEndpoint()
	}
	return ledconfig.Endpoint{
		Scheme: e.Scheme,
		Host:   e.Host,
		Port:   e.Port,
		Path:   e.Path,
	}
}

// SetControllerEndpoint stores ep, keeping the configured timeout.
func (s *Settings) SetControllerEndpoint(ep ledconfig.Endpoint) {
	timeout := 0
	if s.Endpoint != nil {
		timeout = s.Endpoint.TimeoutSeconds
	}
	s.Endpoint = &EndpointSettings{
		Scheme:         ep.Scheme,
		Host:           ep.Host,
		Port:           ep.Port,
		Path:           ep.Path,
		TimeoutSeconds: timeout,
	}
}

// Timeout returns the request timeout (0 means none).
func (s *Settings) Timeout() time.Duration {
	if s.Endpoint == nil {
		return 0
	}
	return time.Duration(s.Endpoint.TimeoutSeconds) * time.Second
}

// ColorSwatches returns the configured swatches or the built-in list.
func (s *Settings) ColorSwatches() []string {
	if len(s.Swatches) > 0 {
		return s.Swatches
	}
	return ledconfig.DefaultSwatches
}

// RememberDevice records a discovered controller.
func (s *Settings) RememberDevice(name, host string, port int) *Device {
	if s.Devices == nil {
		s.Devices = make(map[string]*Device)
	}
	device, ok := s.Devices[name]
	if !ok {
		device = &Device{}
		s.Devices[name] = device
	}
	device.LastHost = host
	device.LastPort = port
	device.LastSeen = time.Now()
	return device
}
