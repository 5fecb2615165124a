package llm

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/umputun/newsdigest/pkg/domain"
)

// Batch simplifies a set of articles with a bounded number of concurrent requests
// and at most one request per Interval. A failed article gets its summary as simplified content.
type Batch struct {
	Simplifier  Simplifier    // nil means no simplification, summary is used for all articles
	Concurrency int           // max concurrent requests, 1 if not positive
	Interval    time.Duration // min interval between request starts, no limit if zero
}

// Run returns a copy of articles with SimplifiedContent set, in the same order. It never fails.
func (b Batch) Run(ctx context.Context, articles []domain.Article) []domain.Article {
	res := make([]domain.Article, len(articles))
	copy(res, articles)

	if b.Simplifier == nil {
		for i := range res {
			res[i].SimplifiedContent = res[i].Summary
		}
		return res
	}

	limit := rate.Inf
	if b.Interval > 0 {
		limit = rate.Every(b.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var g errgroup.Group
	g.SetLimit(max(b.Concurrency, 1))

	for i := range res {
		g.Go(func() error {
			res[i].SimplifiedContent = b.simplifyOne(ctx, limiter, res[i])
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return res
}

func (b Batch) simplifyOne(ctx context.Context, limiter *rate.Limiter, a domain.Article) string {
	if err := limiter.Wait(ctx); err != nil {
		lgr.Printf("[WARN] simplification of %q skipped: %v", a.Title, err)
		return a.Summary
	}

	lgr.Printf("[DEBUG] simplifying %q", a.Title)
	text, err := b.Simplifier.Simplify(ctx, a)
	if err != nil {
		lgr.Printf("[WARN] failed to simplify %q, using summary: %v", a.Title, err)
		return a.Summary
	}
	return text
}
