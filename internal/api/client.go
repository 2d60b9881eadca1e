// Package api talks to the listings backend. Every call carries the browser's session cookie along,
// so the backend sees the same session the browser has.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Backend responses are small JSON documents. Anything past this is a broken backend
const maxResponseSize = 4 << 20

var ErrMalformedResponse = errors.New("malformed response from backend")

// StatusError is any non-2xx answer from the backend
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

type sessionCookieKey struct{}

// WithSessionCookie attaches the browser's session cookie value to ctx for outbound calls
func WithSessionCookie(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, sessionCookieKey{}, value)
}

func sessionCookieFrom(ctx context.Context) string {
	v, _ := ctx.Value(sessionCookieKey{}).(string)
	return v
}

type Client struct {
	baseURL    string
	cookieName string
	http       *http.Client
}

func New(baseURL string, cookieName string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cookieName: cookieName,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *Client) CookieName() string {
	return c.cookieName
}

// Do sends body as JSON (if not nil) and decodes the answer into out (if not nil).
// The returned response has its body drained and closed, it's only useful for headers and cookies.
func (c *Client) Do(ctx context.Context, method string, path string, body any, out any) (*http.Response, error) {
	var reader io.Reader
	contentType := ""

	if body != nil {
		buff, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("couldn't encode request body: %w", err)
		}
		reader = bytes.NewReader(buff)
		contentType = "application/json"
	}

	return c.send(ctx, method, path, reader, contentType, out)
}

func (c *Client) send(ctx context.Context, method string, path string, body io.Reader, contentType string, out any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("couldn't build request for %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if value := sessionCookieFrom(ctx); value != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: value})
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return res, fmt.Errorf("couldn't read response of %s %s: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return res, &StatusError{
			StatusCode: res.StatusCode,
			Message:    extractMessage(respBody),
		}
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return res, fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
		}
	}

	return res, nil
}

// Spring puts the reason in "message", some handlers use "error" instead
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
