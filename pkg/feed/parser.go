package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Parser fetches and parses RSS/Atom/JSON feeds into normalized items
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, feedURL string) (*domain.ParsedFeed, error) {
	// fetch feed content
	body, err := p.fetch(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	// parse feed
	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	source := feed.Title
	if source == "" {
		source = hostOf(feedURL)
	}

	result := &domain.ParsedFeed{
		Title: feed.Title,
		Link:  feed.Link,
		Items: make([]domain.RawItem, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		result.Items = append(result.Items, normalizeItem(item, source, feedURL))
	}
	return result, nil
}

// normalizeItem converts a gofeed item to a raw item
func normalizeItem(item *gofeed.Item, source, feedURL string) domain.RawItem {
	res := domain.RawItem{
		Title:   item.Title,
		Link:    item.Link,
		Source:  source,
		FeedURL: feedURL,
		GUID:    item.GUID,
	}
	if res.GUID == "" {
		res.GUID = item.Link
	}

	// set published time, updated time is the fallback
	if item.PublishedParsed != nil {
		res.Published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		res.Published = item.UpdatedParsed.UTC()
	}

	// text of content first, then text of description, markup never leaks into the body
	res.Body = firstNonEmpty(PlainText(item.Content), PlainText(item.Description))
	return res
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addFeedHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
