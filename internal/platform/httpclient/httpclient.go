// Package httpclient provides the HTTP client used by every network
// stage. It sends realistic desktop-browser headers, enforces a hard
// per-request timeout, and never retries: the pipeline's policy is one
// attempt per URL per run, with failures handled by dropping the item.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/logx"
)

// Client wraps http.Client with the pipeline's header and timeout
// policy.
type Client struct {
	httpClient *http.Client
	logger     logx.Logger
	config     Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// Timeout is the hard per-request bound. Default: 10 seconds.
	Timeout time.Duration

	// UserAgent is the User-Agent header value. Default: a desktop
	// Chrome string, since many storefronts serve bots a stripped page.
	UserAgent string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:   10 * time.Second,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.With("component", "httpclient"),
		config:     config,
	}
}

// Get performs a GET request with browser-like headers. Redirects are
// followed by the underlying http.Client. The response is returned for
// any status code; callers decide what non-2xx means for them.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", url)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"url", url,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.logger.Debug("response received",
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// FetchBody performs a GET and returns the body for 2xx responses,
// reading at most maxBytes (0 = unlimited). Non-2xx statuses become
// sentinel errors via CheckStatus.
func (c *Client) FetchBody(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp); err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}

	return ReadAtMost(resp.Body, maxBytes)
}

// ReadAtMost reads r to EOF keeping a running byte counter, aborting
// with ErrTooLarge the moment the cumulative size exceeds maxBytes.
// An oversized payload is never fully buffered. maxBytes <= 0 means
// no limit.
func ReadAtMost(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return io.ReadAll(r)
	}

	buf := make([]byte, 0, 32*1024)
	chunk := make([]byte, 8192)
	var total int64
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if total > maxBytes {
				return nil, errors.ErrTooLarge
			}
			buf = append(buf, chunk[:n]...)
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// CheckStatus maps a non-2xx response to a sentinel error.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}

// IsUnavailableStatus reports whether a status code tells a
// structured-endpoint strategy that it is unusable on this host and
// the caller should fall back rather than retry.
func IsUnavailableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusForbidden, http.StatusNotFound, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}

// String returns a human-readable representation of the client
// configuration.
func (c *Client) String() string {
	return fmt.Sprintf("HTTPClient{timeout=%s}", c.config.Timeout)
}
