// Package api provides the HTTP REST API and WebSocket server.
//
// It exposes the command proxy, device registry operations, blind
// control endpoints, and real-time status pushes to web and wall-panel
// clients.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// All methods are safe for concurrent use.
package api
