// Package history keeps the dated editions of the digest. It provides the upsert algorithm,
// the Store abstraction with file, sql and memory implementations, and the Editions service
// used by the publish pipeline.
package history

import (
	"github.com/umputun/newsdigest/pkg/domain"
)

// DefaultMaxEditions is the default retention cap
const DefaultMaxEditions = 90

// Upsert puts the edition for date at the front of the history, replacing an existing edition
// with the same date, and trims the tail to maxEditions. Ordering is by write position, not by date,
// so a rewritten older date moves to the front too. The input history is not modified.
func Upsert(h domain.History, date string, articles []domain.Article, maxEditions int) domain.History {
	if maxEditions <= 0 {
		maxEditions = DefaultMaxEditions
	}

	edition := domain.Edition{Date: date, Articles: make([]domain.Article, len(articles))}
	copy(edition.Articles, articles)

	res := make([]domain.Edition, 0, len(h.Editions)+1)
	res = append(res, edition)
	for _, ed := range h.Editions {
		if ed.Date == date {
			continue
		}
		res = append(res, ed)
	}

	if len(res) > maxEditions {
		res = res[:maxEditions]
	}
	return domain.History{Editions: res}
}
