package api

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the wire shape for all error responses.
// Message carries additional detail where the contract provides it (hub
// connection failures); it is omitted otherwise.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes an error response with just the error field.
func writeError(w http.ResponseWriter, status int, errMsg string) {
	writeJSON(w, status, errorResponse{Error: errMsg})
}

// writeErrorWithDetail writes an error response carrying a detail message.
func writeErrorWithDetail(w http.ResponseWriter, status int, errMsg, detail string) {
	writeJSON(w, status, errorResponse{Error: errMsg, Message: detail})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

// writeInternalError writes a generic 500 error response.
// Internal detail is logged, never sent to the client.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "internal server error")
}
