package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "docx-pdf-service/pkg/errors"
)

func TestWriteError_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, `bad "name" \ here`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected Content-Type: %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["error"] != `bad "name" \ here` {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NewNotFoundError("File not found"), http.StatusNotFound, "File not found"},
		{"validation", apperrors.NewValidationError("No selected file"), http.StatusBadRequest, "No selected file"},
		{"internal", apperrors.NewInternalError("disk full", nil), http.StatusInternalServerError, "An error occurred: disk full"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "An error occurred: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeAppError(rr, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not valid JSON: %v", err)
			}
			if body["error"] != tt.message {
				t.Fatalf("expected %q, got %q", tt.message, body["error"])
			}
		})
	}
}
