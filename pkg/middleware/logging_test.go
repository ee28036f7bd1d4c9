package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LogsMethodPathStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/drafts", nil))

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "HTTP request" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["path"] != "/api/drafts" {
		t.Errorf("expected path /api/drafts, got %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("expected status 404, got %v", fields["status"])
	}
}

func TestRequestLogger_NilLoggerPassesThrough(t *testing.T) {
	called := false
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("expected handler to be called")
	}
}

func TestResponseWriter_IgnoresDuplicateWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusBadRequest)
	rw.WriteHeader(http.StatusInternalServerError) // ignored

	if rw.statusCode != http.StatusBadRequest {
		t.Errorf("expected status to stay 400, got %d", rw.statusCode)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected recorded status 400, got %d", rec.Code)
	}
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := rw.Write([]byte("body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rw.headerWritten || rw.statusCode != http.StatusOK {
		t.Errorf("expected implicit 200, got written=%v status=%d", rw.headerWritten, rw.statusCode)
	}
}
