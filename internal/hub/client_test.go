package hub

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/blindbridge/internal/infrastructure/config"
)

// newTestClient points a client at the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	c := NewClient(config.HubConfig{
		Protocol: "http",
		Host:     "placeholder",
		Port:     1,
		Token:    "secret-session",
		Timeout:  10,
	})
	// Aim the fixed URL template at the test server.
	c.baseURL = server.URL
	return c
}

func TestForwardValidation(t *testing.T) {
	var upstreamCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		upstreamCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server)
	ctx := context.Background()

	tests := []struct {
		name     string
		deviceID string
		command  Command
		want     error
	}{
		{"unknown command", "D1", "toggle", ErrInvalidCommand},
		{"empty command", "D1", "", ErrInvalidCommand},
		{"empty device id", "", CommandOn, ErrEmptyDeviceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Forward(ctx, tt.deviceID, tt.command)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Forward() error = %v, want %v", err, tt.want)
			}
		})
	}

	if upstreamCalled {
		t.Error("validation failure reached the upstream hub")
	}
}

func TestForwardRelaysResponse(t *testing.T) {
	var gotPath, gotSession string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotSession = r.Header.Get("ZWaySession")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"code":200,"message":"200 OK"}`) //nolint:errcheck
	}))
	defer server.Close()

	c := newTestClient(t, server)

	resp, err := c.Forward(context.Background(), "ZWayVDev_zway_3-0-38", CommandOn)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Test cleanup

	if gotPath != "/ZAutomation/api/v1/devices/ZWayVDev_zway_3-0-38/command/on" {
		t.Errorf("upstream path = %q", gotPath)
	}
	if gotSession != "secret-session" {
		t.Errorf("ZWaySession header = %q, want the configured token", gotSession)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want application/json", resp.ContentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != `{"code":200,"message":"200 OK"}` {
		t.Errorf("body = %q, want the upstream payload unmodified", body)
	}
}

func TestForwardRelaysUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "no such device") //nolint:errcheck
	}))
	defer server.Close()

	c := newTestClient(t, server)

	// An upstream error status is not a proxy error; it is relayed.
	resp, err := c.Forward(context.Background(), "ghost", CommandStop)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Test cleanup

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want the upstream 404", resp.StatusCode)
	}
}

func TestForwardEscapesPathSegments(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server)

	resp, err := c.Forward(context.Background(), "dev/../../etc", CommandOn)
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	resp.Body.Close() //nolint:errcheck // Test cleanup

	if !strings.Contains(gotPath, "dev%2F..%2F..%2Fetc") {
		t.Errorf("upstream path = %q, want the device id path-escaped", gotPath)
	}
}

func TestForwardHubUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	c := newTestClient(t, server)
	server.Close() // Nobody listening: connection refused.

	_, err := c.Forward(context.Background(), "D1", CommandOn)
	if !errors.Is(err, ErrHubUnavailable) {
		t.Fatalf("Forward() error = %v, want ErrHubUnavailable", err)
	}
	// The underlying cause travels with the error for the 502 body.
	if err.Error() == ErrHubUnavailable.Error() {
		t.Error("error carries no underlying message")
	}
}

func TestForwardHubTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, server)
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.Forward(context.Background(), "D1", CommandOn)
	if !errors.Is(err, ErrHubTimeout) {
		t.Fatalf("Forward() error = %v, want ErrHubTimeout", err)
	}
}

func TestCommandValid(t *testing.T) {
	for _, c := range []Command{CommandOn, CommandOff, CommandStop} {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	for _, c := range []Command{"", "open", "ON", "up"} {
		if c.Valid() {
			t.Errorf("%q should not be valid", c)
		}
	}
}
