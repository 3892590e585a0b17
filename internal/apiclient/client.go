// Package apiclient is the single chokepoint for all Reachly API
// communication. It attaches bearer tokens, tears down the local session
// on 401 responses, and normalizes every failure into an Error with a
// displayable message.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// SessionStore is the persisted session the client reads tokens from
// and clears when the backend signals the session is no longer valid.
// Token and user record are always cleared together.
type SessionStore interface {
	Token() (string, error)
	Clear() error
}

// RequestOptions describes how a single outgoing request is authenticated.
// The zero value authenticates with the stored bearer token.
type RequestOptions struct {
	// NoAuth suppresses the Authorization header, for public endpoints
	// like the landing-page lead form
	NoAuth bool
	// Headers adds or overrides request headers
	Headers map[string]string
}

// Client is an HTTP client for the Reachly API
type Client struct {
	baseURL          string
	httpClient       *http.Client
	session          SessionStore
	onSessionExpired func()
}

// Paths whose 401 responses must not tear down the session: a failed
// login attempt is not a session invalidation.
var authPaths = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
}

// New creates a new API client. The session store may be nil for fully
// unauthenticated use (public lead capture).
func New(baseURL string, session SessionStore) *Client {
	// Cookie jar so endpoints that additionally rely on cookie state work
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// OnSessionExpired registers a hook invoked after a 401 response has
// cleared the persisted session (the CLI uses it to tell the user to log
// in again)
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// Get issues a GET request
func (c *Client) Get(path string, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(http.MethodGet, path, nil, opts)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(path string, body any, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(http.MethodPost, path, body, opts)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(path string, body any, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(http.MethodPut, path, body, opts)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(path string, body any, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(http.MethodPatch, path, body, opts)
}

// Delete issues a DELETE request
func (c *Client) Delete(path string, opts *RequestOptions) (json.RawMessage, error) {
	return c.do(http.MethodDelete, path, nil, opts)
}

// do sends one request and normalizes the outcome: a parsed JSON payload
// or an *Error with a non-empty message. It never retries.
func (c *Client) do(method, path string, body any, opts *RequestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Attach the bearer token unless suppressed. A missing token does not
	// block the request; the backend rejects it if auth was required.
	if !opts.NoAuth && c.session != nil {
		if token, err := c.session.Token(); err == nil && token != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		}
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: "Unable to reach the server. Please check your connection and try again.",
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: "Connection interrupted while reading the response. Please try again.",
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(respBody) == 0 {
			return nil, nil
		}
		return json.RawMessage(respBody), nil
	}

	return nil, c.normalizeError(path, resp.StatusCode, respBody)
}

// normalizeError maps a non-2xx response to an *Error, tearing down the
// persisted session on 401 unless the request was itself a login or
// registration attempt.
func (c *Client) normalizeError(path string, status int, body []byte) *Error {
	message := extractMessage(status, body)

	// The exemption matches on the bare path: a query string on a login
	// request must not change its classification.
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	switch status {
	case http.StatusUnauthorized:
		if !authPaths[path] {
			c.invalidateSession()
		}
		return &Error{Kind: KindAuth, Message: message, Status: status}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, Message: "Access denied", Status: status}
	default:
		return &Error{Kind: KindServer, Message: message, Status: status}
	}
}

// invalidateSession clears the persisted token and user record together
// and notifies the hook. Clearing is synchronous; an in-flight request
// racing with the teardown may still complete and have its result
// ignored, which is benign.
func (c *Client) invalidateSession() {
	if c.session != nil {
		_ = c.session.Clear()
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// extractMessage pulls a human-readable message out of an error body:
// the JSON "message" field, then the "error" field, then the HTTP status
// text, then a generic HTTP code string.
func extractMessage(status int, body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Err != "" {
			return parsed.Err
		}
	}

	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
