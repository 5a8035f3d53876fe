// Package fetch downloads a chat page over HTTP with bounded retries and
// optional revalidation against the on-disk page cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/grokcap/internal/cache"
)

// DefaultUserAgent identifies grokcap to servers.
const DefaultUserAgent = "grokcap/1.0 (+https://github.com/hyperifyio/grokcap)"

// DefaultMaxBytes caps a downloaded page.
const DefaultMaxBytes = 32 << 20

// errServer marks 5xx responses, which are retried.
var errServer = errors.New("server error")

// Client fetches HTML pages.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the first attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt. Zero means no extra bound.
	PerRequestTimeout time.Duration
	// MaxBytes caps the body size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// Cache, when set, is used for conditional requests.
	Cache *cache.PageCache
	// Backoff is the base delay between attempts. Zero means 200ms.
	Backoff time.Duration
}

// Get downloads rawURL and returns the body and its content type.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return nil, "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	var prev *cache.Entry
	if c.Cache != nil {
		if e, err := c.Cache.Meta(rawURL); err == nil {
			prev = e
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(i) * backoff):
			}
		}
		body, ct, err := c.tryOnce(ctx, rawURL, prev)
		if err == nil {
			return body, ct, nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		log.Debug().Err(err).Str("url", rawURL).Int("attempt", i+1).Msg("fetch retry")
	}
	return nil, "", lastErr
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, prev *cache.Entry) ([]byte, string, error) {
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if prev != nil {
		if prev.ETag != "" {
			req.Header.Set("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			req.Header.Set("If-Modified-Since", prev.LastModified)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && prev != nil:
		body, err := c.Cache.Body(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("read cached page: %w", err)
		}
		log.Debug().Str("url", rawURL).Msg("page not modified; using cache")
		return body, prev.ContentType, nil
	case resp.StatusCode >= 500:
		return nil, "", fmt.Errorf("%w: %d", errServer, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if !isHTMLContentType(ct) {
		return nil, "", fmt.Errorf("unsupported content type: %s", ct)
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, "", fmt.Errorf("page larger than %d bytes", limit)
	}
	if c.Cache != nil {
		e := cache.Entry{URL: rawURL, ContentType: ct, ETag: resp.Header.Get("ETag"), LastModified: resp.Header.Get("Last-Modified")}
		if err := c.Cache.Put(e, body); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("caching page")
		}
	}
	return body, ct, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func isTransient(err error) bool {
	return errors.Is(err, errServer) || errors.Is(err, context.DeadlineExceeded)
}

func isHTTPScheme(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
