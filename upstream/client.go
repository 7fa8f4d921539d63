// Package upstream is the HTTP client for the Guevara REST backend. It is
// the single place the authorization header is attached and the single place
// a 401 on an authenticated call is turned into ErrUnauthorized, which the
// app-level error handler translates into a forced logout.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized means the backend rejected the session token. It is only
// returned for calls that carried a token; a 401 on login is an ordinary
// StatusError (bad credentials, not an expired session).
var ErrUnauthorized = errors.New("upstream: session unauthorized")

// StatusError is a non-2xx upstream response passed through to the caller.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: %d %s", e.Code, e.Message)
}

// Client talks to the backend at one base URL. Every call is bounded by the
// client timeout; there are no retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL with a fixed request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetJSON fetches path and decodes the response body into out.
func (c *Client) GetJSON(ctx context.Context, token, path string, out interface{}) error {
	return c.do(ctx, token, http.MethodGet, path, "", nil, out)
}

// PostJSON sends body as JSON and decodes the response into out (out may be
// nil when the response body is not needed).
func (c *Client) PostJSON(ctx context.Context, token, path string, body, out interface{}) error {
	return c.sendJSON(ctx, token, http.MethodPost, path, body, out)
}

// PatchJSON sends body as JSON via PATCH.
func (c *Client) PatchJSON(ctx context.Context, token, path string, body, out interface{}) error {
	return c.sendJSON(ctx, token, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE to path.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.do(ctx, token, http.MethodDelete, path, "", nil, nil)
}

// PostForm forwards a parsed multipart form (fields plus file uploads) via
// POST. Used for the catalog endpoints that take photos.
func (c *Client) PostForm(ctx context.Context, token, path string, form *multipart.Form) error {
	return c.sendForm(ctx, token, http.MethodPost, path, form)
}

// PatchForm forwards a parsed multipart form via PATCH.
func (c *Client) PatchForm(ctx context.Context, token, path string, form *multipart.Form) error {
	return c.sendForm(ctx, token, http.MethodPatch, path, form)
}

func (c *Client) sendJSON(ctx context.Context, token, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("upstream: encode %s %s: %w", method, path, err)
	}
	return c.do(ctx, token, method, path, "application/json", bytes.NewReader(payload), out)
}

func (c *Client) sendForm(ctx context.Context, token, method, path string, form *multipart.Form) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				return fmt.Errorf("upstream: write form field %s: %w", name, err)
			}
		}
	}

	for name, headers := range form.File {
		for _, header := range headers {
			part, err := writer.CreateFormFile(name, header.Filename)
			if err != nil {
				return fmt.Errorf("upstream: create form file %s: %w", name, err)
			}
			file, err := header.Open()
			if err != nil {
				return fmt.Errorf("upstream: open upload %s: %w", header.Filename, err)
			}
			_, err = io.Copy(part, file)
			file.Close()
			if err != nil {
				return fmt.Errorf("upstream: copy upload %s: %w", header.Filename, err)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return err
	}
	return c.do(ctx, token, method, path, writer.FormDataContentType(), &buf, nil)
}

func (c *Client) do(ctx context.Context, token, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("upstream: build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		// The backend expects its own bearer-style scheme.
		req.Header.Set("Authorization", "System "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the backend's message field out of an error body, falling
// back to the raw text.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
		return envelope.Message
	}
	return strings.TrimSpace(string(raw))
}
