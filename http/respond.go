package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
	"homebuilder-proforma/service"
)

const maxBodyBytes = 1 << 20

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes into a buffer first so a failed encode can still
// produce a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding response", "error", err)
		sendJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("Error writing response", "error", err)
	}
}

// decodeJSON reads a JSON request body into dst. It writes the error
// response itself and reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		sendJSONError(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		logger.FromContext(r.Context()).Debug("Error decoding request body", "error", err)
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// handleServiceError maps service errors onto status codes.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		sendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNotFound):
		sendJSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		sendJSONError(w, err.Error(), http.StatusConflict)
	default:
		logger.FromContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
		sendJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
