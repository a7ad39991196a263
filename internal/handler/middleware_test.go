package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// recordingLogger keeps the messages it receives and the fields of the
// latest entry for each message.
type recordingLogger struct {
	MockHandlerLogger
	infos  []string
	warns  []string
	errors []string
	fields map[string][]interface{}
}

func (l *recordingLogger) record(msg string, fields []interface{}) {
	if l.fields == nil {
		l.fields = make(map[string][]interface{})
	}
	l.fields[msg] = fields
}

func (l *recordingLogger) Info(msg string, fields ...interface{}) {
	l.infos = append(l.infos, msg)
	l.record(msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields ...interface{}) {
	l.warns = append(l.warns, msg)
	l.record(msg, fields)
}

func (l *recordingLogger) Error(msg string, err error, fields ...interface{}) {
	l.errors = append(l.errors, msg)
	l.record(msg, fields)
}

// field returns the value logged under key with msg.
func (l *recordingLogger) field(msg, key string) (interface{}, bool) {
	fields := l.fields[msg]
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i] == key {
			return fields[i+1], true
		}
	}
	return nil, false
}

func TestRecoveryMiddleware_Panic(t *testing.T) {
	logger := &recordingLogger{}
	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("conversion exploded")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/upload", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "An error occurred: conversion exploded") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected the panic to be logged once, got %d", len(logger.errors))
	}
}

func TestRecoveryMiddleware_PassThrough(t *testing.T) {
	h := RecoveryMiddleware(NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestRequestLoggingMiddleware_AssignsRequestID(t *testing.T) {
	logger := &recordingLogger{}

	var seen string
	h := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetRequestIDFromContext(r)
		if !ok || id == "" {
			t.Fatalf("expected request id in context")
		}
		seen = id
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rr.Header().Get(RequestIDHeader); got == "" || got != seen {
		t.Fatalf("expected response header %q to match context id %q", got, seen)
	}
	if len(logger.infos) != 1 || len(logger.warns) != 0 {
		t.Fatalf("expected one info entry, got infos=%v warns=%v", logger.infos, logger.warns)
	}
}

func TestRequestLoggingMiddleware_KeepsClientRequestID(t *testing.T) {
	h := RequestLoggingMiddleware(NewMockHandlerLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetRequestIDFromContext(r)
		if id != "client-id-1" {
			t.Fatalf("expected client request id, got %q", id)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "client-id-1" {
		t.Fatalf("unexpected response request id: %q", got)
	}
}

func TestRequestLoggingMiddleware_WarnsOnServerErrors(t *testing.T) {
	logger := &recordingLogger{}
	h := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "An error occurred: boom")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/upload", nil))

	if len(logger.warns) != 1 || len(logger.infos) != 0 {
		t.Fatalf("expected one warn entry, got infos=%v warns=%v", logger.infos, logger.warns)
	}
}
