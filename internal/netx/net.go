// Package netx contains HTTP helpers shared by the API client.
package netx

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 4 << 10

// StatusError is returned by CheckResponse for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %s; body: %s", e.Status, strings.TrimSpace(string(e.Body)))
}

// CheckResponse returns nil for 2xx responses. Otherwise it reads (a bounded
// prefix of) the body, closes it, and returns a *StatusError.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: b}
}

// NewHTTPClient returns a client with an overall request timeout. Zero means
// no timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
