// Package api is the single choke point for outbound HTTP calls to the todo
// backend. Every call returns a Result; network and server failures are
// values, never errors or panics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Defaults applied by New when options are left empty.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 10 * time.Second
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// TokenSource supplies the bearer token. It is consulted on every request so
// a login or logout takes effect immediately.
type TokenSource interface {
	Token() (string, error)
}

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// HTTPClient overrides the underlying client; its Timeout is replaced
	// by Options.Timeout.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client sends JSON requests to the backend and normalizes the responses
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

// New creates a client from opts
func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	hc.Timeout = timeout

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    hc,
		tokens:  opts.Tokens,
		logger:  logger,
	}
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallOption adjusts a single request
type CallOption func(*callConfig)

type callConfig struct {
	schema *jsonschema.Schema
}

// WithSchema validates a successful response body against schema before it
// is decoded.
func WithSchema(schema *jsonschema.Schema) CallOption {
	return func(cc *callConfig) {
		cc.schema = schema
	}
}

// Get sends a GET request
func Get[T any](ctx context.Context, c *Client, path string, opts ...CallOption) Result[T] {
	return do[T](ctx, c, http.MethodGet, path, nil, opts)
}

// Delete sends a DELETE request
func Delete[T any](ctx context.Context, c *Client, path string, opts ...CallOption) Result[T] {
	return do[T](ctx, c, http.MethodDelete, path, nil, opts)
}

// Post sends a POST request with a JSON body
func Post[T, B any](ctx context.Context, c *Client, path string, body B, opts ...CallOption) Result[T] {
	return do[T](ctx, c, http.MethodPost, path, &body, opts)
}

// Put sends a PUT request with a JSON body
func Put[T, B any](ctx context.Context, c *Client, path string, body B, opts ...CallOption) Result[T] {
	return do[T](ctx, c, http.MethodPut, path, &body, opts)
}

// Patch sends a PATCH request with a JSON body
func Patch[T, B any](ctx context.Context, c *Client, path string, body B, opts ...CallOption) Result[T] {
	return do[T](ctx, c, http.MethodPatch, path, &body, opts)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, opts []CallOption) Result[T] {
	var cc callConfig
	for _, opt := range opts {
		opt(&cc)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail[T](fmt.Sprintf("encode request: %v", err), NoResponseStatus)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fail[T](err.Error(), NoResponseStatus)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		msg := c.transportMessage(err)
		c.logger.Warn("request failed", "method", method, "path", path, "err", msg)
		return fail[T](msg, NoResponseStatus)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.logger.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))
	if err != nil {
		return fail[T](fmt.Sprintf("read response: %v", err), resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorFromBody(raw)
		if msg == "" {
			msg = fmt.Sprintf("request failed with status code %d", resp.StatusCode)
		}
		c.logger.Warn("server rejected request", "method", method, "path", path, "status", resp.StatusCode, "err", msg)
		return fail[T](msg, resp.StatusCode)
	}

	var data T
	empty := len(bytes.TrimSpace(raw)) == 0
	if empty && cc.schema == nil {
		return ok(data, resp.StatusCode)
	}

	// A schema means a payload is expected, so an empty body is a violation
	if cc.schema != nil {
		msg := "empty body"
		if !empty {
			msg = checkSchema(cc.schema, raw)
		}
		if msg != "" {
			c.logger.Warn("invalid response payload", "method", method, "path", path, "err", msg)
			return fail[T]("invalid response payload: "+msg, resp.StatusCode)
		}
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return fail[T](fmt.Sprintf("decode response: %v", err), resp.StatusCode)
	}
	return ok(data, resp.StatusCode)
}

// authorize attaches the bearer token when one is stored.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Warn("read token", "err", err)
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) transportMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Sprintf("timeout of %dms exceeded", c.timeout.Milliseconds())
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return err.Error()
}

// errorFromBody extracts a structured error message. The backend reports
// errors either as {"error": "..."} or, for framework errors, as
// {"detail": "..."} / {"detail": [{"msg": "..."}]}.
func errorFromBody(raw []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, field := range []string{"error", "detail"} {
		if msg := messageFrom(body[field]); msg != "" {
			return msg
		}
	}
	return ""
}

func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
