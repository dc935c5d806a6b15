package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/ledctl/internal/discovery"
	"github.com/muurk/ledctl/internal/ledconfig"
)

func TestHeader_Render(t *testing.T) {
	out := NewHeader("LED configuration", "ledctl show",
		Param{Key: "Controller", Value: "http://10.0.0.2:5000/api"},
	).SetWidth(80).Render()

	for _, want := range []string{"LED CONFIGURATION", "ledctl show", "Controller:", "http://10.0.0.2:5000/api"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestResult_Render(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Configuration applied", Param{Key: "Mode", Value: "solid"}),
			want:   []string{SuccessMarker, "SUCCESS", "Configuration applied", "Mode:", "solid"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Push failed", errors.New("boom"), "check the cable"),
			want:   []string{FailureMarker, "FAILED", "Error: boom", "Troubleshooting:", "check the cable"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No controllers found"),
			want:   []string{WarningMarker, "WARNING", "No controllers found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("result missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestNewDeviceErrorResult(t *testing.T) {
	err := &ledconfig.DeviceError{Type: ledconfig.ErrTypeConnectionRefused, Message: "connection refused"}
	r := NewDeviceErrorResult(err)

	if r.Type != ResultFailure {
		t.Errorf("Type = %v, want failure", r.Type)
	}
	if r.Title != "Controller refused connection" {
		t.Errorf("Title = %q", r.Title)
	}
	if len(r.Troubleshooting) == 0 {
		t.Fatal("expected troubleshooting tips")
	}
	for _, tip := range r.Troubleshooting {
		if tip == "Troubleshooting:" || strings.HasPrefix(tip, "•") {
			t.Errorf("tip not cleaned: %q", tip)
		}
	}
}

func TestRenderSwatch_Invalid(t *testing.T) {
	if got := RenderSwatch("red", 3); !strings.Contains(got, "???") {
		t.Errorf("RenderSwatch(invalid) = %q", got)
	}
}

func TestRenderConfigCard(t *testing.T) {
	card := RenderConfigCard(ledconfig.DeviceConfig{Mode: ledconfig.ModeSolid, Color: "#ff00ff", Brightness: 50})
	for _, want := range []string{"solid", "#ff00ff (magenta)", "50%", "#800080"} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
}

func TestPrinter_PrintDevices(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDevices(nil)
	if !strings.Contains(buf.String(), "No LED controllers found") {
		t.Errorf("empty listing = %q", buf.String())
	}

	buf.Reset()
	p.PrintDevices([]*discovery.Device{
		{Instance: "Kitchen", IP: "192.168.1.20", Port: 5000, Scheme: "http", Path: "/api"},
	})
	out := buf.String()
	for _, want := range []string{"INSTANCE", "Kitchen", "192.168.1.20:5000", "http://192.168.1.20:5000/api"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		p := NewPrinter(&buf)
		got := p.Confirm(strings.NewReader(tt.input), "Overwrite settings", []string{"existing file will be replaced"}, "Continue?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
