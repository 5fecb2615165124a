package digest

import (
	"time"

	"github.com/umputun/newsdigest/pkg/domain"
)

const (
	// DefaultLimit is the default number of selected articles
	DefaultLimit = 5
	// DefaultSummaryLength is the default summary budget, in characters
	DefaultSummaryLength = 300

	truncationMarker = "..."
)

// Selector takes the top of a ranked list and projects it to articles
type Selector struct {
	Limit         int // max number of articles, DefaultLimit if not positive
	SummaryLength int // max summary length in characters, DefaultSummaryLength if not positive
}

// Select returns articles for the first Limit ranked items, preserving their order
func (s Selector) Select(ranked []domain.ScoredItem) []domain.Article {
	return s.Project(s.Top(ranked))
}

// Top returns the prefix of ranked limited to Limit items.
// The result is a copy, the input is never modified.
func (s Selector) Top(ranked []domain.ScoredItem) []domain.ScoredItem {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, len(ranked))

	res := make([]domain.ScoredItem, limit)
	copy(res, ranked[:limit])
	return res
}

// Project converts scored items to the published article shape
func (s Selector) Project(items []domain.ScoredItem) []domain.Article {
	res := make([]domain.Article, 0, len(items))
	for _, item := range items {
		res = append(res, domain.Article{
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: item.Published.UTC().Format(time.RFC3339),
			Source:      item.Source,
			Summary:     s.summary(item.Body),
			GUID:        item.GUID,
		})
	}
	return res
}

func (s Selector) summary(body string) string {
	size := s.SummaryLength
	if size <= 0 {
		size = DefaultSummaryLength
	}
	return Truncate(body, size)
}

// Truncate cuts text to size characters and appends "..." if anything was cut.
// Negative size is treated as zero.
func Truncate(text string, size int) string {
	size = max(size, 0)
	runes := []rune(text)
	if len(runes) <= size {
		return text
	}
	return string(runes[:size]) + truncationMarker
}
