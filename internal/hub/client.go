package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/nerrad567/blindbridge/internal/infrastructure/config"
)

// Command is a physical blind command understood by the hub.
type Command string

// Commands accepted by the hub's virtual device API.
const (
	CommandOn   Command = "on"
	CommandOff  Command = "off"
	CommandStop Command = "stop"
)

// Valid reports whether the command is one the proxy will forward.
func (c Command) Valid() bool {
	return c == CommandOn || c == CommandOff || c == CommandStop
}

// apiPrefix is the hub's fixed virtual-device API prefix. The full command
// URL is {protocol}://{host}:{port}{apiPrefix}/devices/{id}/command/{cmd}.
const apiPrefix = "/ZAutomation/api/v1"

// sessionHeader carries the hub session credential on every request.
const sessionHeader = "ZWaySession"

// Response is a relayed upstream response. Body streams the upstream
// payload unmodified; the caller must close it.
type Response struct {
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
}

// Client forwards validated commands to the Z-Way hub.
//
// Each Forward call is a single attempt with a fixed timeout. There are
// no retries and no interpretation of the upstream payload. The session
// token is attached as a header and never logged.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a hub client from configuration.
func NewClient(cfg config.HubConfig) *Client {
	return &Client{
		baseURL: fmt.Sprintf("%s://%s:%d", cfg.Protocol, cfg.Host, cfg.Port),
		token:   cfg.Token,
		http: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
	}
}

// Forward validates and sends a command to the hub, relaying the response.
//
// Returns:
//   - ErrInvalidCommand / ErrEmptyDeviceID before any upstream call
//   - ErrHubUnavailable on connection failure, wrapping the cause
//   - ErrHubTimeout when the hub does not answer within the timeout
//
// On success the upstream status code, content type and body are relayed
// verbatim; the caller owns Body and must close it.
func (c *Client) Forward(ctx context.Context, deviceID string, command Command) (*Response, error) {
	if !command.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCommand, command)
	}
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	reqURL := fmt.Sprintf("%s%s/devices/%s/command/%s",
		c.baseURL,
		apiPrefix,
		url.PathEscape(deviceID),
		url.PathEscape(string(command)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building hub request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set(sessionHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

// classifyTransportError maps a transport fault onto the proxy taxonomy.
// Timeouts (client timeout or context deadline) become ErrHubTimeout;
// everything else is ErrHubUnavailable carrying the underlying message.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrHubTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrHubTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrHubUnavailable, err)
}
