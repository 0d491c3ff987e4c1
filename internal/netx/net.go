// Package netx holds the small HTTP helpers the blob backends share: a
// pooled client constructor and byte-oriented PUT/GET calls that turn non-2xx
// responses into *StatusError.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blobkeeper/internal/common"
)

// maxErrorBody caps how much of a failed response body is kept in the error.
const maxErrorBody = 4 << 10

// StatusError is returned for responses outside the 2xx range. It matches
// common.ErrTransport with errors.Is.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == common.ErrTransport
}

// NewHTTPClient returns a client with connection reuse and the given overall
// request timeout (zero means no timeout).
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Put uploads body to url and returns the response body. contentType is
// sent only when non-empty.
func Put(ctx context.Context, c *http.Client, url string, body []byte, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	respBody, _, err := do(c, req)
	return respBody, err
}

// Get downloads url and returns the body together with its Content-Type.
func Get(ctx context.Context, c *http.Client, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	return do(c, req)
}

func do(c *http.Client, req *http.Request) ([]byte, string, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", common.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "", &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %w", common.ErrTransport, err)
	}

	return b, resp.Header.Get("Content-Type"), nil
}
