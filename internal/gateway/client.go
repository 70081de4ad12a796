// Package gateway is the single chokepoint for calls to the resume optimizer backend.
// It attaches the bearer credential per call, maps failures to typed errors and
// reports 401 responses to the session so it can force a logout.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "ResumeOptimizerClient/1.0"

// maxErrorText caps, in runes, how much of a non-JSON error body ends up in a message.
const maxErrorText = 200

// TokenSource returns the bearer token to attach, or "" for an unauthenticated call.
type TokenSource func() string

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
	// Token is read once per outbound call.
	Token TokenSource
	// OnUnauthorized is invoked whenever any call receives a 401.
	OnUnauthorized func()
	// Inflight receives the per-operation in-flight flags. A new tracker is created if nil.
	Inflight *Inflight
}

// Client issues the backend calls.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	userAgent      string
	token          TokenSource
	onUnauthorized func()
	inflight       *Inflight
}

// New creates a Client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	inflight := opts.Inflight
	if inflight == nil {
		inflight = NewInflight()
	}

	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		baseURL:        base,
		httpClient:     httpClient,
		userAgent:      userAgent,
		token:          token,
		onUnauthorized: opts.OnUnauthorized,
		inflight:       inflight,
	}, nil
}

// Inflight returns the tracker holding this client's in-flight flags.
func (c *Client) Inflight() *Inflight {
	return c.inflight
}

// call describes one outbound request.
type call struct {
	op          Operation
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// jsonCall builds a call with a JSON-encoded body.
func jsonCall(op Operation, method, path string, payload any) (call, error) {
	c := call{op: op, method: method, path: path}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return c, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		c.body = bytes.NewReader(data)
		c.contentType = "application/json"
	}
	return c, nil
}

// do executes a call and returns the success body. Failures are either
// *NetworkError, *AuthError (401 only) or *statusError for the caller to map.
func (c *Client) do(ctx context.Context, req call) ([]byte, error) {
	done := c.inflight.Begin(req.op)
	defer done()

	endpoint := c.baseURL.JoinPath(req.path)
	if req.query != nil {
		endpoint.RawQuery = req.query.Encode()
	}
	// JoinPath drops a trailing slash on the joined element; keep it for routes like /match-jobs/.
	if strings.HasSuffix(req.path, "/") && !strings.HasSuffix(endpoint.Path, "/") {
		endpoint.Path += "/"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), req.body)
	if err != nil {
		return nil, &NetworkError{Op: req.op, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token := c.token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[gateway] %s %s failed: %v", req.method, endpoint.Path, err)
		return nil, &NetworkError{Op: req.op, Message: "backend unreachable", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: req.op, Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	log.Printf("[gateway] %s %s returned HTTP %d", req.method, endpoint.Path, resp.StatusCode)

	detail, isJSON := errorDetail(body)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &AuthError{Message: detail, StatusCode: resp.StatusCode, Unauthorized: true}
	}

	if !isJSON {
		return nil, &NetworkError{Op: req.op, Message: detail, StatusCode: resp.StatusCode}
	}
	return nil, &statusError{StatusCode: resp.StatusCode, Detail: detail}
}

// mapFailure passes *AuthError and *NetworkError through and converts a
// *statusError with wrap.
func mapFailure(err error, wrap func(detail string, status int) error) error {
	if se, ok := err.(*statusError); ok {
		return wrap(se.Detail, se.StatusCode)
	}
	return err
}

// errorDetail extracts a human-readable message from an error body. The bool is
// false when the body is neither empty nor JSON.
func errorDetail(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", true
	}
	if !json.Valid(trimmed) {
		return plainText(trimmed), false
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return string(trimmed), true
	}

	if len(envelope.Detail) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s, true
		}
		// FastAPI validation errors: [{"loc": [...], "msg": "..."}]
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; "), true
			}
		}
		return string(envelope.Detail), true
	}
	if envelope.Error != "" {
		return envelope.Error, true
	}
	return envelope.Message, true
}

// plainText reduces an HTML or text error page to a short single line.
func plainText(body []byte) string {
	text := string(body)
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		doc.Find("script, style, head").Remove()
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxErrorText {
		return text
	}
	n := 0
	for i := range text {
		if n == maxErrorText-3 {
			return text[:i] + "..."
		}
		n++
	}
	return text
}
