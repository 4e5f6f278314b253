package apiclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/eduportal/portal/frontend/internal/session"
	"github.com/eduportal/portal/shared/logger"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakeBackend records every request and answers through handle.
type fakeBackend struct {
	mu       sync.Mutex
	requests []capturedRequest
	server   *httptest.Server
}

func newFakeBackend(t *testing.T, handle http.HandlerFunc) *fakeBackend {
	t.Helper()
	logger.Discard()
	fb := &fakeBackend{}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		fb.mu.Unlock()
		handle(w, r)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) client(tokens session.TokenStore, opts ...Option) *Client {
	return New(fb.server.URL+"/api", fb.server.URL, tokens, opts...)
}

func (fb *fakeBackend) calls() []capturedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]capturedRequest(nil), fb.requests...)
}

func (fb *fakeBackend) last(t *testing.T) capturedRequest {
	t.Helper()
	calls := fb.calls()
	if len(calls) == 0 {
		t.Fatal("backend received no request")
	}
	return calls[len(calls)-1]
}

func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// routes answers by request path; unknown paths get 404.
func routes(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.URL.Path]; ok {
			h(w, r)
			return
		}
		respondJSON(http.StatusNotFound, `{"error":{"status":404,"name":"NotFoundError"}}`)(w, r)
	}
}
