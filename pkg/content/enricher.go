package content

import (
	"context"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Extractor retrieves the main text of a page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Enricher replaces thin item bodies with the extracted page text
type Enricher struct {
	Extractor     Extractor
	MinTextLength int // items with a body shorter than this, in characters, get extracted
}

// Enrich returns a copy of items where short bodies are replaced by the extracted text.
// Extraction failures keep the original body. Order and scores are not changed.
func (e Enricher) Enrich(ctx context.Context, items []domain.ScoredItem) []domain.ScoredItem {
	res := make([]domain.ScoredItem, len(items))
	copy(res, items)
	if e.Extractor == nil {
		return res
	}

	for i := range res {
		if utf8.RuneCountInString(res[i].Body) >= e.MinTextLength || res[i].Link == "" {
			continue
		}
		text, err := e.Extractor.Extract(ctx, res[i].Link)
		if err != nil {
			lgr.Printf("[WARN] failed to extract content from %s: %v", res[i].Link, err)
			continue
		}
		if utf8.RuneCountInString(text) <= utf8.RuneCountInString(res[i].Body) {
			continue
		}
		lgr.Printf("[DEBUG] extracted %d chars from %s", len(text), res[i].Link)
		res[i].Body = text
	}
	return res
}
