package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"bizbooks/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Validation failures
// are the client's fault (422), a broken store is ours (503), and a corrupted
// counter is a plain 500 that needs an operator.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, core.ErrAllocation):
		status = http.StatusInternalServerError
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidDate,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
		core.ErrNoItems,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected so
// typos in payloads fail loudly instead of silently dropping data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Trailing garbage after the document is also a malformed request.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
