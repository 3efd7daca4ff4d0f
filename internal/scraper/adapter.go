package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobpulse/internal/domain/job"
)

// SourceAdapter fetches raw postings from exactly one external origin.
// Implementations perform network I/O only and must not write shared
// state; every transport or parse failure comes back as the returned
// error, never as a panic.
type SourceAdapter interface {
	Source() job.Source
	Fetch(ctx context.Context, query, location string, limit int) ([]job.Job, error)
}

const maxResponseBytes = 5 << 20

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// httpGetWithRetry performs a GET with the identifying header set,
// retrying transport failures and non-2xx statuses with a short linear
// backoff. attempts<=0 means a single attempt.
func httpGetWithRetry(ctx context.Context, client *http.Client, rawURL string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var body []byte
	var lastErr error
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range httpHeaders() {
			req.Header.Set(k, v)
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			sleepBackoff(ctx, i)
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				return
			}
			b, err := readAllLimit(resp.Body, maxResponseBytes)
			if err != nil {
				lastErr = err
				return
			}
			lastErr = nil
			body = b
		}()
		if lastErr == nil {
			return body, nil
		}
		sleepBackoff(ctx, i)
	}
	return nil, lastErr
}

func sleepBackoff(ctx context.Context, attempt int) {
	d := time.Duration(300*(attempt+1)) * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func readAllLimit(r io.Reader, max int64) ([]byte, error) {
	lr := &io.LimitedReader{R: r, N: max}
	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if lr.N <= 0 {
		return nil, fmt.Errorf("response too large")
	}
	return b, nil
}

func normalizeURL(u string) string {
	return strings.TrimSpace(u)
}

func hostFromURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// observedNow marks postings whose source exposes no reliable date. The
// pipeline never fabricates historical precision.
func observedNow() *time.Time {
	now := time.Now().UTC()
	return &now
}

// containsFold reports case-insensitive substring containment.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
