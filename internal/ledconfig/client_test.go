package ledconfig

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// Mock controller responses
const (
	mockGetResponse  = `{"mode":"solid","color":"#ff00ff","brightness":75}`
	mockPostResponse = `{"received":{"mode":"off","color":"#00ff00","brightness":50}}`
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithURL(server.URL + "/api")
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}
	return client, server
}

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.100.12", 5000)

	if got := client.Endpoint.URL(); got != "http://192.168.100.12:5000/api" {
		t.Errorf("Endpoint.URL() = %s, want http://192.168.100.12:5000/api", got)
	}

	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}

	if client.HTTPClient.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (no timeout)", client.HTTPClient.Timeout)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.100.12", 5000)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Endpoint
		wantErr bool
	}{
		{
			name: "full URL",
			raw:  "http://192.168.100.12:5000/api",
			want: Endpoint{Scheme: "http", Host: "192.168.100.12", Port: 5000, Path: "/api"},
		},
		{
			name: "no scheme",
			raw:  "10.0.0.5:8080",
			want: Endpoint{Scheme: "http", Host: "10.0.0.5", Port: 8080, Path: "/api"},
		},
		{
			name: "https default port",
			raw:  "https://leds.local",
			want: Endpoint{Scheme: "https", Host: "leds.local", Port: 443, Path: "/api"},
		},
		{
			name: "custom path",
			raw:  "http://leds.local:5000/v2/config",
			want: Endpoint{Scheme: "http", Host: "leds.local", Port: 5000, Path: "/v2/config"},
		},
		{
			name:    "unsupported scheme",
			raw:     "ftp://leds.local",
			wantErr: true,
		},
		{
			name:    "no host",
			raw:     "http://:5000",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEndpoint(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEndpoint(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseEndpoint(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEndpoint_WebSocketURL(t *testing.T) {
	tests := []struct {
		ep   Endpoint
		want string
	}{
		{Endpoint{Scheme: "http", Host: "10.0.0.5", Port: 5000, Path: "/api"}, "ws://10.0.0.5:5000/api/ws"},
		{Endpoint{Scheme: "https", Host: "leds.local", Port: 443, Path: "/api/"}, "wss://leds.local:443/api/ws"},
		{Endpoint{Host: "::1", Port: 5000}, "ws://[::1]:5000/api/ws"},
	}

	for _, tt := range tests {
		if got := tt.ep.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL() = %s, want %s", got, tt.want)
		}
	}
}

func TestFetchConfig_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Request method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api" {
			t.Errorf("Request path = %s, want /api", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockGetResponse))
	})

	config, err := client.FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("FetchConfig() error = %v, want nil", err)
	}

	want := DeviceConfig{Mode: ModeSolid, Color: "#ff00ff", Brightness: 75}
	if *config != want {
		t.Errorf("FetchConfig() = %+v, want %+v", *config, want)
	}
}

func TestFetchConfig_MissingField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mode":"solid","color":"#ff00ff"}`))
	})

	_, err := client.FetchConfig(context.Background())
	if err == nil {
		t.Fatal("FetchConfig() should fail when brightness is missing")
	}

	if !IsProtocolError(err) {
		t.Errorf("FetchConfig() error should be protocol error, got %v", err)
	}
}

func TestFetchConfig_InvalidValues(t *testing.T) {
	bodies := map[string]string{
		"unknown mode":        `{"mode":"rainbow","color":"#ff00ff","brightness":50}`,
		"short color":         `{"mode":"solid","color":"#f0f","brightness":50}`,
		"brightness too high": `{"mode":"solid","color":"#ff00ff","brightness":150}`,
		"wrong type":          `{"mode":"solid","color":"#ff00ff","brightness":"high"}`,
		"null body":           `null`,
		"array body":          `[1,2,3]`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.FetchConfig(context.Background())
			if !IsProtocolError(err) {
				t.Errorf("FetchConfig() error = %v, want protocol error", err)
			}
		})
	}
}

func TestFetchConfig_NonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>It works!</html>"))
	})

	_, err := client.FetchConfig(context.Background())
	if err == nil {
		t.Fatal("FetchConfig() should fail for HTML body")
	}

	if !IsNetworkError(err) {
		t.Errorf("non-JSON body should be a network error, got %v", err)
	}

	devErr, _ := asDeviceError(err)
	if devErr.NetworkSubtype != NetworkErrorMalformedBody {
		t.Errorf("NetworkSubtype = %v, want NetworkErrorMalformedBody", devErr.NetworkSubtype)
	}

	if devErr.Endpoint == "" {
		t.Error("Endpoint should be filled in")
	}
}

func TestFetchConfig_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchConfig(context.Background())
	if !IsHTTPError(err) {
		t.Fatalf("FetchConfig() error = %v, want HTTP error", err)
	}

	devErr, _ := asDeviceError(err)
	if devErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", devErr.StatusCode)
	}
}

func TestFetchConfig_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClientWithURL(url)
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}

	_, err = client.FetchConfig(context.Background())
	if err == nil {
		t.Fatal("FetchConfig() should fail against a closed server")
	}

	if !IsNetworkError(err) {
		t.Errorf("FetchConfig() error should be network error, got %T: %v", err, err)
	}
}

func TestFetchConfig_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.FetchConfig(ctx)
	if !IsCanceled(err) {
		t.Errorf("FetchConfig() error = %v, want canceled", err)
	}

	if IsRetryable(err) {
		t.Error("canceled request should not be retryable")
	}
}

func TestPushConfig_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Request method = %s, want POST", r.Method)
		}

		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}

		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}
		if got["mode"] != "off" || got["color"] != "#00ff00" || got["brightness"] != float64(50) {
			t.Errorf("request body = %s", body)
		}
		if len(got) != 3 {
			t.Errorf("request body should have exactly 3 fields, got %d", len(got))
		}

		_, _ = w.Write([]byte(mockPostResponse))
	})

	desired := DeviceConfig{Mode: ModeOff, Color: "#00ff00", Brightness: 50}
	received, err := client.PushConfig(context.Background(), desired)
	if err != nil {
		t.Fatalf("PushConfig() error = %v", err)
	}

	if *received != desired {
		t.Errorf("PushConfig() = %+v, want %+v", *received, desired)
	}
}

func TestPushConfig_ServerAuthoritative(t *testing.T) {
	// Controller clamps brightness differently and reports what it applied
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"received":{"mode":"solid","color":"#FF0000","brightness":80}}`))
	})

	received, err := client.PushConfig(context.Background(), DeviceConfig{Mode: ModeSolid, Color: "#ff0000", Brightness: 90})
	if err != nil {
		t.Fatalf("PushConfig() error = %v", err)
	}

	want := DeviceConfig{Mode: ModeSolid, Color: "#FF0000", Brightness: 80}
	if *received != want {
		t.Errorf("PushConfig() = %+v, want %+v", *received, want)
	}
}

func TestPushConfig_MissingReceived(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	_, err := client.PushConfig(context.Background(), DefaultDeviceConfig())
	if !IsProtocolError(err) {
		t.Errorf("PushConfig() error = %v, want protocol error", err)
	}
}

func TestPushConfig_RejectsInvalidDesired(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.PushConfig(context.Background(), DeviceConfig{Mode: "blink", Color: "#ff00ff", Brightness: 10})
	if !IsValidationError(err) {
		t.Errorf("PushConfig() error = %v, want validation error", err)
	}

	if called {
		t.Error("invalid configuration should not reach the controller")
	}
}

func TestPushConfig_SingleAttempt(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.PushConfig(context.Background(), DefaultDeviceConfig())
	if err == nil {
		t.Fatal("PushConfig() should fail on 503")
	}

	if requests != 1 {
		t.Errorf("requests = %d, want 1 (no retries)", requests)
	}

	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should mention status code, got %v", err)
	}
}
