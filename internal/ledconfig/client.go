package ledconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/logging"
)

const (
	// DefaultScheme is the scheme LED controllers serve on
	DefaultScheme = "http"

	// DefaultPort is the controller's HTTP port
	DefaultPort = 5000

	// DefaultPath is the configuration resource on the controller
	DefaultPath = "/api"

	// DefaultTimeout is zero: a request waits until the controller answers or
	// the caller's context is done.
	DefaultTimeout time.Duration = 0

	// maxResponseSize bounds how much of a response body is read
	maxResponseSize = 1 << 20

	contentTypeJSON = "application/json"
)

// Endpoint locates the configuration resource on an LED controller
type Endpoint struct {
	Scheme string // "http" or "https"
	Host   string // IP address or hostname
	Port   int
	Path   string // resource path, e.g. "/api"
}

// URL returns the full resource URL (e.g., "http://192.168.100.12:5000/api")
func (e Endpoint) URL() string {
	u := url.URL{
		Scheme: e.scheme(),
		Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
		Path:   e.path(),
	}
	return u.String()
}

// WebSocketURL returns the push channel URL (e.g., "ws://192.168.100.12:5000/api/ws")
func (e Endpoint) WebSocketURL() string {
	scheme := "ws"
	if e.scheme() == "https" {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(e.Host, strconv.Itoa(e.Port)),
		Path:   strings.TrimSuffix(e.path(), "/") + "/ws",
	}
	return u.String()
}

// String implements fmt.Stringer
func (e Endpoint) String() string {
	return e.URL()
}

func (e Endpoint) scheme() string {
	if e.Scheme == "" {
		return DefaultScheme
	}
	return e.Scheme
}

func (e Endpoint) path() string {
	if e.Path == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(e.Path, "/") {
		return "/" + e.Path
	}
	return e.Path
}

// ParseEndpoint parses a URL such as "http://10.0.0.5:5000/api".
// A missing port defaults by scheme and a missing path defaults to /api.
func ParseEndpoint(raw string) (Endpoint, error) {
	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, NewValidationError(fmt.Sprintf("invalid endpoint URL %q: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, NewValidationError(fmt.Sprintf("endpoint scheme must be http or https, got %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return Endpoint{}, NewValidationError(fmt.Sprintf("endpoint URL %q has no host", raw))
	}

	ep := Endpoint{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Path:   u.Path,
	}

	if p := u.Port(); p != "" {
		ep.Port, err = strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, NewValidationError(fmt.Sprintf("invalid port %q", p))
		}
	} else if u.Scheme == "https" {
		ep.Port = 443
	} else {
		ep.Port = 80
	}

	if ep.Path == "" || ep.Path == "/" {
		ep.Path = DefaultPath
	}

	return ep, nil
}

// Client talks to an LED controller's configuration endpoint.
//
// Client keeps no configuration state between calls: every method is a
// single request/response with no retries or backoff.
type Client struct {
	// Endpoint is the controller's configuration resource
	Endpoint Endpoint

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for a controller at host:port using the default
// scheme and path.
func NewClient(host string, port int) *Client {
	return NewClientForEndpoint(Endpoint{
		Scheme: DefaultScheme,
		Host:   host,
		Port:   port,
		Path:   DefaultPath,
	})
}

// NewClientForEndpoint creates a client for a fully specified endpoint
func NewClientForEndpoint(ep Endpoint) *Client {
	return &Client{
		Endpoint:   ep,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewClientWithURL creates a client from a URL (e.g., "http://192.168.100.12:5000/api")
func NewClientWithURL(rawURL string) (*Client, error) {
	ep, err := ParseEndpoint(rawURL)
	if err != nil {
		return nil, err
	}
	return NewClientForEndpoint(ep), nil
}

// SetTimeout sets the HTTP request timeout (0 disables it)
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// FetchConfig retrieves the controller's current configuration (GET).
func (c *Client) FetchConfig(ctx context.Context) (*DeviceConfig, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	config, err := ParseDeviceConfig(body)
	if err != nil {
		return nil, c.withEndpoint(err)
	}

	logging.Debug("Fetched configuration",
		zap.String("endpoint", c.Endpoint.URL()),
		zap.String("mode", string(config.Mode)),
		zap.String("color", config.Color),
		zap.Int("brightness", config.Brightness),
	)

	return config, nil
}

// PushConfig sends the desired configuration (POST) and returns the
// configuration the controller reports as received.
func (c *Client) PushConfig(ctx context.Context, desired DeviceConfig) (*DeviceConfig, error) {
	if errs := ValidateDeviceConfig(&desired); len(errs) > 0 {
		return nil, errs[0]
	}

	payload, err := json.Marshal(desired)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, payload)
	if err != nil {
		return nil, err
	}

	received, err := ParsePushResponse(body)
	if err != nil {
		return nil, c.withEndpoint(err)
	}

	logging.Debug("Pushed configuration",
		zap.String("endpoint", c.Endpoint.URL()),
		zap.String("mode", string(received.Mode)),
		zap.String("color", received.Color),
		zap.Int("brightness", received.Brightness),
	)

	return received, nil
}

// do performs a single request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	endpoint := c.Endpoint.URL()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	logging.LogRequest(method, endpoint, payload)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		devErr := ClassifyNetworkError(err, endpoint)
		devErr.Message = fmt.Sprintf("%s %s failed: %s", method, endpoint, devErr.Message)
		return nil, devErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		devErr := ClassifyNetworkError(err, endpoint)
		devErr.Message = "failed to read response body"
		return nil, devErr
	}

	logging.LogResponse(endpoint, resp.StatusCode, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		httpErr.Endpoint = endpoint
		return nil, httpErr
	}

	return body, nil
}

func (c *Client) withEndpoint(err error) error {
	if devErr, ok := asDeviceError(err); ok && devErr.Endpoint == "" {
		devErr.Endpoint = c.Endpoint.URL()
	}
	return err
}
