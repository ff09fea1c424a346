package fetch

import (
	"context"
	"fmt"
	"sync"

	"joyfeed/internal/logger"
)

// WorkFunc fetches one feed URL and reports its outcome.
type WorkFunc func(ctx context.Context, url string) Result

// MapConcurrent runs fn for every URL with at most limit fetches in flight.
// Results land at the index of their input URL, not in completion order, and
// the call blocks until every scheduled fetch has finished. One feed's
// failure is confined to its own Result slot.
func MapConcurrent(ctx context.Context, urls []string, limit int, fn WorkFunc) []Result {
	results := make([]Result, len(urls))
	if len(urls) == 0 {
		return results
	}
	if limit <= 0 || limit > len(urls) {
		limit = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				// Workers write to disjoint slots, so no lock is needed.
				results[idx] = runJob(ctx, urls[idx], fn)
			}
		}()
	}
	for idx := range urls {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return results
}

// runJob confines a panicking work func to its own result slot so the other
// feeds in the batch still complete.
func runJob(ctx context.Context, url string, fn WorkFunc) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("feed fetch panicked", "url", url, "panic", r)
			res = Result{URL: url, Status: StatusFetchError, Err: fmt.Errorf("panic during fetch of %s: %v", url, r)}
		}
	}()
	return fn(ctx, url)
}

// FetchAll fetches every URL through the limiter using this fetcher.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, limit int) []Result {
	return MapConcurrent(ctx, urls, limit, f.Fetch)
}
