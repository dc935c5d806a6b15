package ledconfig

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newPushServer(t *testing.T, messages []string) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		// Wait for the client's close reply
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(server.Close)

	client, err := NewClientWithURL(server.URL + "/api")
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}
	return client
}

func TestWatchConfig_DeliversValidMessages(t *testing.T) {
	client := newPushServer(t, []string{
		`{"mode":"solid","color":"#ff0000","brightness":10}`,
		`not json`,
		`{"mode":"disco","color":"#ff0000","brightness":10}`,
		`{"mode":"off","color":"#00ff00","brightness":0}`,
	})

	var got []DeviceConfig
	err := client.WatchConfig(context.Background(), func(dc DeviceConfig) {
		got = append(got, dc)
	})
	if err != nil {
		t.Fatalf("WatchConfig() error = %v, want nil on normal close", err)
	}

	want := []DeviceConfig{
		{Mode: ModeSolid, Color: "#ff0000", Brightness: 10},
		{Mode: ModeOff, Color: "#00ff00", Brightness: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("received %d configs, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("config[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWatchConfig_ContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := NewClientWithURL(server.URL)
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := client.WatchConfig(ctx, func(DeviceConfig) {}); err != nil {
		t.Errorf("WatchConfig() error = %v, want nil after cancel", err)
	}
}

func TestWatchConfig_HandshakeRejected(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client, err := NewClientWithURL(server.URL)
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}

	err = client.WatchConfig(context.Background(), func(DeviceConfig) {})
	if !IsHTTPError(err) {
		t.Errorf("WatchConfig() error = %v, want HTTP error", err)
	}
}
