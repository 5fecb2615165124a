// Package pipeline runs one publish: fetch feeds, keep recent items, rank, select the top,
// simplify and store the edition for the current date.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/enricher.go -pkg mocks -skip-ensure -fmt goimports . Enricher
//go:generate moq -out mocks/simplifier.go -pkg mocks -skip-ensure -fmt goimports . Simplifier
//go:generate moq -out mocks/editions.go -pkg mocks -skip-ensure -fmt goimports . Editions

// ErrNoContent is returned when a run has nothing to publish. No edition is written in this case.
var ErrNoContent = errors.New("no content")

// Fetcher retrieves items from all feeds
type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) []domain.RawItem
}

// Enricher fills thin item bodies
type Enricher interface {
	Enrich(ctx context.Context, items []domain.ScoredItem) []domain.ScoredItem
}

// Simplifier sets simplified content for all articles, never fails
type Simplifier interface {
	Run(ctx context.Context, articles []domain.Article) []domain.Article
}

// Editions stores the edition of a date
type Editions interface {
	Add(ctx context.Context, date string, articles []domain.Article) (domain.History, error)
}

// Params defines pipeline dependencies and settings
type Params struct {
	Fetcher    Fetcher
	Feeds      []string
	Window     time.Duration
	Ranker     *digest.Ranker
	Selector   digest.Selector
	Enricher   Enricher   // optional
	Simplifier Simplifier // optional, summary is used as simplified content if nil
	Editions   Editions
	Now        func() time.Time // optional, time.Now by default
}

// Pipeline is a single publish operation, safe to run repeatedly but not concurrently
type Pipeline struct {
	Params
}

// Result describes a completed run
type Result struct {
	Date     string           `json:"date"`
	Fetched  int              `json:"fetched"`
	Recent   int              `json:"recent"`
	Articles []domain.Article `json:"articles"`
	Editions int              `json:"editions"`
}

// New makes a pipeline
func New(params Params) *Pipeline {
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Ranker == nil {
		params.Ranker = digest.NewRanker(digest.DefaultKeywords)
	}
	return &Pipeline{Params: params}
}

// Run publishes the edition for the current UTC date.
// Returns wrapped ErrNoContent if nothing was fetched, nothing is recent or nothing got selected.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.Now()
	date := now.UTC().Format(domain.DateLayout)
	lgr.Printf("[INFO] publishing edition %s from %d feeds", date, len(p.Feeds))

	items := p.Fetcher.FetchAll(ctx, p.Feeds)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items fetched", ErrNoContent)
	}

	recent := digest.FilterRecent(items, now, p.Window)
	lgr.Printf("[INFO] %d of %d items are recent", len(recent), len(items))
	if len(recent) == 0 {
		return nil, fmt.Errorf("%w: no recent items", ErrNoContent)
	}

	ranked := p.Ranker.Rank(recent)
	top := p.Selector.Top(ranked)
	if len(top) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", ErrNoContent)
	}
	for i, it := range top {
		lgr.Printf("[DEBUG] #%d score %d: %s (%s)", i+1, it.Score, it.Title, it.Source)
	}

	if p.Enricher != nil {
		top = p.Enricher.Enrich(ctx, top)
	}
	articles := p.Selector.Project(top)

	if p.Simplifier != nil {
		articles = p.Simplifier.Run(ctx, articles)
	} else {
		for i := range articles {
			articles[i].SimplifiedContent = articles[i].Summary
		}
	}

	// canceled run may have degraded articles, don't replace the stored edition with them
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("publish %s interrupted: %w", date, err)
	}

	h, err := p.Editions.Add(ctx, date, articles)
	if err != nil {
		return nil, fmt.Errorf("store edition %s: %w", date, err)
	}

	lgr.Printf("[INFO] published edition %s with %d articles", date, len(articles))
	return &Result{Date: date, Fetched: len(items), Recent: len(recent), Articles: articles, Editions: len(h.Editions)}, nil
}
