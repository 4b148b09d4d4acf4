package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddlewareKeepsCallerID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := requestIDMiddleware(next)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set(requestIDHeader, "frontend-trace-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "frontend-trace-42" {
		t.Fatalf("context request id = %q, want frontend-trace-42", seen)
	}
	if got := rec.Header().Get(requestIDHeader); got != "frontend-trace-42" {
		t.Fatalf("response header = %q, want frontend-trace-42", got)
	}
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := requestIDMiddleware(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if seen == "" {
		t.Fatalf("missing generated request id in context")
	}
	if rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("header %q does not match context id %q", rec.Header().Get(requestIDHeader), seen)
	}
}

func TestResponseLogCapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	response := &responseLog{ResponseWriter: rec, status: http.StatusOK}

	if _, err := response.Write([]byte(`{"status":"ok"}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if response.status != http.StatusOK {
		t.Fatalf("implicit status = %d, want 200", response.status)
	}
	if response.bytes != len(`{"status":"ok"}`) {
		t.Fatalf("bytes = %d, want %d", response.bytes, len(`{"status":"ok"}`))
	}

	rec = httptest.NewRecorder()
	response = &responseLog{ResponseWriter: rec, status: http.StatusOK}
	response.WriteHeader(http.StatusNotFound)
	if response.status != http.StatusNotFound {
		t.Fatalf("explicit status = %d, want 404", response.status)
	}
}
