package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/ledctl/internal/ledconfig"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "ledctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'ledctl'", configDir)
	}

	if runtime.GOOS == "linux" && configDir != filepath.Join("/tmp/xdg", "ledctl") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/ledctl", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewSettings(t *testing.T) {
	s := NewSettings()

	if s.Version != 1 {
		t.Errorf("Version = %v, want 1", s.Version)
	}

	ep := s.ControllerEndpoint()
	if got := ep.URL(); got != "http://192.168.100.12:5000/api" {
		t.Errorf("ControllerEndpoint().URL() = %s, want http://192.168.100.12:5000/api", got)
	}

	if s.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0", s.Timeout())
	}

	if got := s.ColorSwatches(); len(got) != 6 || got[0] != "#ff00ff" {
		t.Errorf("ColorSwatches() = %v, want built-in list", got)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if s.Endpoint.Host != DefaultHost {
		t.Errorf("Endpoint.Host = %s, want default", s.Endpoint.Host)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	s := NewSettings()
	s.SetControllerEndpoint(ledconfig.Endpoint{Scheme: "https", Host: "leds.local", Port: 8443, Path: "/v2"})
	s.Endpoint.TimeoutSeconds = 3
	s.Swatches = []string{"#112233", "#445566"}
	s.RememberDevice("Kitchen strip", "10.0.0.7", 5000)

	if err := s.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "# ledctl settings") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if got := loaded.ControllerEndpoint().URL(); got != "https://leds.local:8443/v2" {
		t.Errorf("endpoint URL = %s", got)
	}
	if loaded.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", loaded.Timeout())
	}
	if len(loaded.Swatches) != 2 || loaded.ColorSwatches()[0] != "#112233" {
		t.Errorf("Swatches = %v", loaded.Swatches)
	}
	device := loaded.Devices["Kitchen strip"]
	if device == nil || device.LastHost != "10.0.0.7" || device.LastPort != 5000 {
		t.Errorf("Devices = %+v", loaded.Devices)
	}
}

func TestLoadFrom_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nendpoint:\n  host: 10.1.1.1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if got := s.ControllerEndpoint().URL(); got != "http://10.1.1.1:5000/api" {
		t.Errorf("endpoint URL = %s, want http://10.1.1.1:5000/api", got)
	}
	if s.Preferences == nil || s.Preferences.DiscoverTimeout != 5 {
		t.Errorf("Preferences = %+v, want defaults", s.Preferences)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad version", "version: 2\n"},
		{"bad scheme", "version: 1\nendpoint:\n  scheme: ftp\n  host: x\n"},
		{"bad port", "version: 1\nendpoint:\n  host: x\n  port: 70000\n"},
		{"bad swatch", "version: 1\nswatches: [\"#12\"]\n"},
		{"not yaml", "version: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Errorf("LoadFrom(%q) should fail", tt.content)
			}
		})
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := CreateDefaultConfig(path, false); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if err := CreateDefaultConfig(path, false); err == nil {
		t.Error("CreateDefaultConfig() should refuse to overwrite")
	}
	if err := CreateDefaultConfig(path, true); err != nil {
		t.Errorf("CreateDefaultConfig(force) error = %v", err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(s.Swatches) != len(ledconfig.DefaultSwatches) {
		t.Errorf("Swatches = %v, want the default list written out", s.Swatches)
	}
}

func TestRememberDevice_UpdatesExisting(t *testing.T) {
	s := NewSettings()

	first := s.RememberDevice("strip", "10.0.0.1", 5000)
	first.Nickname = "Desk"
	second := s.RememberDevice("strip", "10.0.0.2", 5001)

	if first != second {
		t.Error("RememberDevice() should return the same entry for the same name")
	}
	if second.Nickname != "Desk" || second.LastHost != "10.0.0.2" {
		t.Errorf("device = %+v", second)
	}
}
