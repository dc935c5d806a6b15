package ledconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/logging"
)

// WatchConfig subscribes to the controller's push channel and calls fn with
// every configuration it broadcasts. It blocks until ctx is done (returning
// nil) or the connection fails.
//
// Messages that do not decode to a valid DeviceConfig are logged and skipped.
func (c *Client) WatchConfig(ctx context.Context, fn func(DeviceConfig)) error {
	wsURL := c.Endpoint.WebSocketURL()

	dialer := *websocket.DefaultDialer
	if c.HTTPClient != nil && c.HTTPClient.Timeout > 0 {
		dialer.HandshakeTimeout = c.HTTPClient.Timeout
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			httpErr := NewHTTPError(resp.StatusCode, fmt.Sprintf("websocket handshake rejected with status %d", resp.StatusCode))
			httpErr.Endpoint = wsURL
			return httpErr
		}
		devErr := ClassifyNetworkError(err, wsURL)
		devErr.Message = "failed to open push channel: " + devErr.Message
		return devErr
	}
	defer func() { _ = conn.Close() }()

	logging.LogConnection(wsURL, "watch_connected")

	// Unblock ReadMessage when the caller is done
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.LogConnection(wsURL, "watch_closed")
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return NewNetworkError(fmt.Sprintf("push channel closed (code %d)", closeErr.Code), err)
			}
			return NewNetworkError("push channel read failed", err)
		}

		if msgType != websocket.TextMessage {
			continue
		}

		config, err := ParseDeviceConfig(data)
		if err != nil {
			logging.Warn("Ignoring invalid pushed configuration",
				zap.String("endpoint", wsURL),
				zap.Error(err),
			)
			continue
		}

		fn(*config)
	}
}
