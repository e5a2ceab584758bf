// Package hub is the command proxy to the Z-Way home-automation hub.
//
// The proxy is stateless: it validates the command and device id, builds
// the hub's fixed command URL, attaches the session credential, and relays
// the response as a stream. Transport faults are translated into the
// ErrHubUnavailable / ErrHubTimeout taxonomy; retry policy, if any, is the
// caller's responsibility.
package hub
