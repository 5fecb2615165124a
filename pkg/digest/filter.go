// Package digest implements the pure transforms of the publish pipeline:
// recency filtering, keyword relevance ranking and top-N selection.
package digest

import (
	"time"

	"github.com/umputun/newsdigest/pkg/domain"
)

// DefaultWindow is the trailing recency window
const DefaultWindow = 24 * time.Hour

// FilterRecent returns items published at or after now-window, in input order.
// Items without a publication time are excluded as they can't be proven recent.
// The input slice is not modified.
func FilterRecent(items []domain.RawItem, now time.Time, window time.Duration) []domain.RawItem {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window)

	res := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		if item.Published.IsZero() {
			continue
		}
		if item.Published.Before(cutoff) {
			continue
		}
		res = append(res, item)
	}
	return res
}
