package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/blindbridge/internal/device"
)

// handleListDevices returns the merged device list: catalog defaults
// with user entries overriding by id, plus net-new user devices.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.registry.Devices(r.Context())
	if err != nil {
		s.logger.Error("listing devices failed", "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns one device, preferring the user store over
// the catalog.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deviceId")

	dev, err := s.registry.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("getting device failed", "device_id", id, "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleAddDevice stores a new user device. An omitted id is generated.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var dev device.Device
	if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.registry.Add(r.Context(), &dev); err != nil {
		s.writeDeviceError(w, err, "adding device failed")
		return
	}
	writeJSON(w, http.StatusCreated, dev)
}

// handleUpdateDevice inserts or replaces a user device under the path id.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deviceId")

	var dev device.Device
	if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	dev.ID = id

	if err := s.registry.Update(r.Context(), &dev); err != nil {
		s.writeDeviceError(w, err, "updating device failed")
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleDeleteDevice removes a user device. Deleting an id that only
// exists in the catalog is a no-op; the catalog entry stays visible.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "deviceId")

	if err := s.registry.Delete(r.Context(), id); err != nil {
		s.writeDeviceError(w, err, "deleting device failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearDevices removes all user devices, restoring the catalog
// defaults on the next list.
func (s *Server) handleClearDevices(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Clear(r.Context()); err != nil {
		s.writeDeviceError(w, err, "clearing devices failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeDeviceError maps registry errors onto the response contract.
func (s *Server) writeDeviceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, device.ErrDeviceExists):
		writeError(w, http.StatusConflict, "device id already exists")
	case errors.Is(err, device.ErrInvalidDevice), errors.Is(err, device.ErrInvalidType):
		writeBadRequest(w, err.Error())
	case errors.Is(err, device.ErrStoreNotReady):
		writeError(w, http.StatusServiceUnavailable, "device store not ready")
	default:
		s.logger.Error(logMsg, "error", err)
		writeInternalError(w)
	}
}
