// Package fetch downloads and parses syndication feeds with a hard per-feed
// time budget. A slow or broken feed degrades to an empty result; it never
// fails an aggregation cycle.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"joyfeed/internal/logger"
	"joyfeed/internal/metrics"
)

// UserAgent identifies outbound feed requests.
const UserAgent = "JoyFeedNewsBot/1.0 (+https://joyfeednews.com)"

// Status classifies the outcome of one feed fetch.
type Status int

const (
	StatusOK Status = iota
	StatusTimeout
	StatusFetchError
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTimeout:
		return "timeout"
	case StatusFetchError:
		return "fetch_error"
	case StatusParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of fetching one feed. Non-OK results keep the error
// for logging and tests; callers collapse them to zero entries.
type Result struct {
	URL       string
	Status    Status
	FeedTitle string
	Items     []*gofeed.Item
	Err       error
}

// Entries returns the parsed items, or nil for any non-OK outcome.
func (r Result) Entries() []*gofeed.Item {
	if r.Status != StatusOK {
		return nil
	}
	return r.Items
}

// Fetcher retrieves feed documents over HTTP and parses them.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	stats   *metrics.Metrics
}

// New creates a Fetcher with the given per-feed timeout.
func New(timeout time.Duration, stats *metrics.Metrics) *Fetcher {
	return &Fetcher{
		client:  &http.Client{},
		timeout: timeout,
		stats:   stats,
	}
}

// Fetch retrieves one feed within the fetcher's time budget. The returned
// Result is never an aggregation error: timeouts, non-2xx responses and
// parse failures come back as their own statuses with no items.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	body, err := f.download(ctx, url)
	if err != nil {
		status := StatusFetchError
		if errors.Is(err, context.DeadlineExceeded) {
			status = StatusTimeout
			f.stats.IncrementFeedsTimedOut()
		} else {
			f.stats.IncrementFeedsFailed()
		}
		logger.Warn("feed fetch failed", "url", url, "status", status.String(), "error", err)
		return Result{URL: url, Status: status, Err: err}
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		f.stats.IncrementFeedsFailed()
		logger.Warn("feed parse failed", "url", url, "error", err)
		return Result{URL: url, Status: StatusParseError, Err: err}
	}

	f.stats.IncrementFeedsFetched()
	logger.Debug("feed fetched", "url", url, "items", len(feed.Items))
	return Result{URL: url, Status: StatusOK, FeedTitle: feed.Title, Items: feed.Items}
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return string(data), nil
}
