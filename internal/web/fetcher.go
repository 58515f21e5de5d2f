// Package web resolves facts about Nintendo characters and games from
// external sources: series wikis first, then a generic instant-answer search.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrNotFound reports that no source produced usable content.
var ErrNotFound = errors.New("web: not found")

// BrowserUserAgent is sent with every request; some wikis reject unknown agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

const maxBodyBytes = 4 << 20

// Fetcher performs rate limited GET requests with a fixed timeout.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher returns a Fetcher. A non-positive rps disables rate limiting.
func NewFetcher(timeout time.Duration, rps float64) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: BrowserUserAgent,
	}
}

// Get fetches url and returns the status code and body. Transport failures
// are returned as errors; any HTTP status is returned as-is.
func (f *Fetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read body: %w", err)
	}
	return resp.StatusCode, body, nil
}
