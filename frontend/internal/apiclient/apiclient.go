package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/eduportal/portal/frontend/internal/session"
	internal_errors "github.com/eduportal/portal/shared/errors"
	"github.com/eduportal/portal/shared/logger"
	"github.com/eduportal/portal/shared/middleware/metrics"
)

const (
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-Id"
)

var emptyObject = json.RawMessage(`{}`)

// Client is the portal's only way to reach the content backend. Every method
// returns the response payload with the transport envelope already stripped.
type Client struct {
	baseURL        string
	serverURL      string
	httpClient     *http.Client
	tokens         session.TokenStore
	onUnauthorized func()
	now            func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUnauthorizedHook is called after the token was cleared because the
// backend answered 401. The portal uses it to send the user to the login view.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithClock overrides the time source used for timestamps written to records.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client. apiURL carries the /api prefix, serverURL does not.
func New(apiURL, serverURL string, tokens session.TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = session.NewMemory("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(apiURL, "/"),
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns a client for routes outside the /api prefix, such as /ocr/process.
func (c *Client) Root() *Client {
	root := *c
	root.baseURL = c.serverURL
	return &root
}

// WithSession returns a copy that reads and writes the token through tokens
// and calls onUnauthorized on a 401. The portal binds one per HTTP request.
func (c *Client) WithSession(tokens session.TokenStore, onUnauthorized func()) *Client {
	bound := *c
	bound.tokens = tokens
	bound.onUnauthorized = onUnauthorized
	return &bound
}

func (c *Client) Tokens() session.TokenStore {
	return c.tokens
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do is the single, unified helper for making API requests.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	// Multipart bodies carry their own boundary; everything else, DELETE
	// included, is JSON as far as the backend is concerned.
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logger.Log.With("request_id", requestID, "method", method, "path", path)
	log.Debug("backend request", "url", reqURL)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackend(method, 0, time.Since(start))
		log.Error("backend unreachable", "error", err)
		return nil, &internal_errors.TransportError{
			Method: method, URL: reqURL, Message: internal_errors.NetworkUnreachableMessage, Err: err,
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	metrics.ObserveBackend(method, resp.StatusCode, time.Since(start))
	if err != nil {
		log.Error("reading backend response", "status", resp.StatusCode, "error", err)
		return nil, &internal_errors.TransportError{
			Method: method, URL: reqURL, Message: internal_errors.NetworkUnreachableMessage, Err: err,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.fail(log, method, path, resp.StatusCode, payload)
	}

	log.Debug("backend response", "status", resp.StatusCode, "bytes", len(payload))
	return normalize(resp.StatusCode, payload), nil
}

// normalize turns a successful response into the value handed to callers.
// A body-less response becomes {} so callers never see a nil payload.
func normalize(statusCode int, payload []byte) json.RawMessage {
	if statusCode == http.StatusNoContent || len(bytes.TrimSpace(payload)) == 0 {
		return emptyObject
	}
	return json.RawMessage(payload)
}

func (c *Client) fail(log *slog.Logger, method, path string, statusCode int, payload []byte) error {
	switch {
	case statusCode == http.StatusUnauthorized:
		log.Warn("backend rejected credentials, clearing token", "status", statusCode)
		c.tokens.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case statusCode == http.StatusNotFound:
		log.Error("backend resource not found", "status", statusCode)
	case statusCode >= http.StatusInternalServerError:
		log.Error("backend internal error", "status", statusCode, "body", string(payload))
	default:
		log.Warn("backend request failed", "status", statusCode, "body", string(payload))
	}
	return &internal_errors.StatusError{Method: method, Path: path, StatusCode: statusCode, Body: payload}
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "application/json", nil
	case *Form:
		return b.encode()
	case Form:
		return b.encode()
	default:
		jsonBody, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(jsonBody), "application/json", nil
	}
}

// unwrapData strips one {"data": ...} envelope. Payloads without one pass through.
func unwrapData(raw json.RawMessage) json.RawMessage {
	r := gjson.GetBytes(raw, "data")
	if !r.Exists() {
		return raw
	}
	return json.RawMessage(r.Raw)
}

// Decode unmarshals an unwrapped payload into T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("cannot decode backend payload: %w", err)
	}
	return out, nil
}

func itemPath(resource, id string) string {
	return "/" + resource + "/" + url.PathEscape(id)
}

// withQuery appends q to path, leaving path untouched when q is empty.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// wrap puts a payload under the "data" key, the shape the backend expects for writes.
func wrap(payload any) map[string]any {
	return map[string]any{"data": payload}
}
