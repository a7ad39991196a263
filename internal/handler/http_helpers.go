package handler

import (
	"encoding/json"
	"net/http"

	apperrors "docx-pdf-service/pkg/errors"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDHeader carries the request id to and from clients
const RequestIDHeader = "X-Request-ID"

// GetRequestIDFromContext extracts the request id assigned by the logging middleware
func GetRequestIDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(requestIDContextKey).(string)
	return id, ok
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err onto its HTTP status and public message. Errors
// outside the application taxonomy are reported as 500.
func writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		writeError(w, apperrors.GetStatusCode(appErr), appErr.PublicMessage())
		return
	}
	writeError(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
}
