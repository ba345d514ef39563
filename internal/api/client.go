// Package api provides typed request/response bindings to the backend
// services (user, account, transaction, BFF aggregation, AI agent). Each
// method sends exactly one request and maps the outcome into either a
// decoded payload or the canonical *Error shape. No business validation
// happens here.
package api

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
)

type client struct {
	httpClient *http.Client
	baseURL    string
}

func newClient(baseURL string, timeout time.Duration) client {
	return client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// do issues one request and decodes the response into out (when non-nil).
// Money fields must be declared as json.Number in the target struct; the
// decoder is configured to never produce float64.
func (c client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "Backend unreachable",
			"method", method,
			"url", c.baseURL+path,
			"error", err)
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeErrorBody(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return networkError(fmt.Errorf("decode response body: %w", err))
	}
	return nil
}

// decodeErrorBody maps a non-2xx response into the canonical error. A
// structured {status, error, message} body is propagated as-is; anything
// else keeps the HTTP status but gets the generic network-error label.
func decodeErrorBody(statusCode int, raw []byte) *Error {
	var apiErr Error
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		if apiErr.Status == 0 {
			apiErr.Status = statusCode
		}
		return &apiErr
	}
	return &Error{
		Status:  statusCode,
		Code:    networkErrorCode,
		Message: http.StatusText(statusCode),
	}
}

func pathEscape(segment string) string {
	return url.PathEscape(segment)
}

// parseTimestamp decodes the RFC 3339 timestamps the services emit.
// A missing or malformed value degrades to the zero time; timestamps are
// display data, not part of any decision.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
