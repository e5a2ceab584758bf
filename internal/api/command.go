package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/blindbridge/internal/hub"
)

// handleCommand proxies a validated command to the automation hub and
// relays the hub's response verbatim.
//
// Error contract:
//   - 400 invalid command or empty device id, request never leaves the process
//   - 502 hub unreachable, with the underlying cause in the message field
//   - 504 hub did not answer within the configured timeout
//
// On success the hub's status code, content type, and body are relayed
// byte for byte, including hub-side errors such as 404.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	command := hub.Command(chi.URLParam(r, "command"))

	resp, err := s.zway.Forward(r.Context(), deviceID, command)
	if err != nil {
		switch {
		case errors.Is(err, hub.ErrInvalidCommand), errors.Is(err, hub.ErrEmptyDeviceID):
			writeBadRequest(w, err.Error())
		case errors.Is(err, hub.ErrHubTimeout):
			writeError(w, http.StatusGatewayTimeout, "The request to the Z-Way server timed out.")
		case errors.Is(err, hub.ErrHubUnavailable):
			writeErrorWithDetail(w, http.StatusBadGateway,
				"Failed to connect to Z-Way server.", err.Error())
		default:
			s.logger.Error("command proxy failed",
				"device_id", deviceID,
				"command", string(command),
				"error", err,
			)
			writeInternalError(w)
		}
		return
	}
	defer resp.Body.Close()

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		s.logger.Debug("relaying hub response interrupted",
			"device_id", deviceID,
			"error", err,
		)
	}
}
