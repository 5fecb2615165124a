package feed

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser

// FeedParser retrieves and parses a single feed
type FeedParser interface {
	Parse(ctx context.Context, feedURL string) (*domain.ParsedFeed, error)
}

// Fetcher fetches many feeds concurrently. A failure of one feed never affects the others.
type Fetcher struct {
	parser  FeedParser
	timeout time.Duration
}

// NewFetcher creates a fetcher applying the given timeout to every single feed fetch
func NewFetcher(parser FeedParser, timeout time.Duration) *Fetcher {
	return &Fetcher{parser: parser, timeout: timeout}
}

// FetchAll fetches all feeds concurrently and returns the flattened items.
// Items are ordered by feed position in urls, then by their order in the feed.
// Failed feeds are logged and contribute no items, there is no retry.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []domain.RawItem {
	results := make([][]domain.RawItem, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, feedURL string) {
			defer wg.Done()
			results[idx] = f.fetchOne(ctx, feedURL)
		}(i, u)
	}
	wg.Wait()

	total := 0
	for _, items := range results {
		total += len(items)
	}
	res := make([]domain.RawItem, 0, total)
	for _, items := range results {
		res = append(res, items...)
	}

	lgr.Printf("[INFO] fetched %d items from %d feeds", len(res), len(urls))
	return res
}

func (f *Fetcher) fetchOne(ctx context.Context, feedURL string) []domain.RawItem {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	lgr.Printf("[DEBUG] fetching feed %s", feedURL)
	parsed, err := f.parser.Parse(ctx, feedURL)
	if err != nil {
		lgr.Printf("[WARN] failed to fetch %s: %v", feedURL, err)
		return nil
	}
	if parsed == nil {
		return nil
	}

	lgr.Printf("[DEBUG] fetched %d items from %s", len(parsed.Items), feedURL)
	return parsed.Items
}
