package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/blindbridge/internal/blinds"
)

// handleMoveUp starts raising a blind. The response carries the status
// snapshot taken at acceptance; ticks follow over the WebSocket.
func (s *Server) handleMoveUp(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, s.engine.MoveUp)
}

// handleMoveDown starts lowering a blind.
func (s *Server) handleMoveDown(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, s.engine.MoveDown)
}

// handleStop halts a blind's movement.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, s.engine.Stop)
}

// handleMove runs one engine operation and writes the accepted snapshot.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, deviceID string) (blinds.DeviceStatus, error)) {
	deviceID := chi.URLParam(r, "deviceId")

	st, err := op(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, blinds.ErrEmptyDeviceID) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("blind command failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusAccepted, st)
}

// handleBlindStatus returns the simulated status, creating the record
// with the default state on first access.
func (s *Server) handleBlindStatus(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	writeJSON(w, http.StatusOK, s.engine.Status(deviceID))
}
