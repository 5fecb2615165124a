package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/digest"
	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/history"
	"github.com/umputun/newsdigest/pkg/pipeline/mocks"
)

var testNow = time.Date(2024, 5, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

func fetcherWith(items []domain.RawItem) *mocks.FetcherMock {
	return &mocks.FetcherMock{
		FetchAllFunc: func(ctx context.Context, urls []string) []domain.RawItem { return items },
	}
}

func sampleItems() []domain.RawItem {
	return []domain.RawItem{
		{Title: "Cooking tips", Link: "https://example.com/cook", Published: testNow.Add(-time.Hour), Body: "pasta"},
		{Title: "New LLM announced", Link: "https://example.com/llm", Published: testNow.Add(-3 * time.Hour), Source: "AI Blog"},
		{Title: "Weather update", Body: "AI-powered forecasting", Link: "https://example.com/weather", Published: testNow.Add(-2 * time.Hour)},
		{Title: "Old AI LLM story", Link: "https://example.com/old", Published: testNow.Add(-48 * time.Hour)},
		{Title: "Undated AI", Link: "https://example.com/undated"},
	}
}

func TestPipeline_Run(t *testing.T) {
	editions := &mocks.EditionsMock{
		AddFunc: func(ctx context.Context, date string, articles []domain.Article) (domain.History, error) {
			return domain.History{Editions: []domain.Edition{{Date: date, Articles: articles}, {Date: "2024-05-09"}}}, nil
		},
	}
	simplifier := &mocks.SimplifierMock{
		RunFunc: func(ctx context.Context, articles []domain.Article) []domain.Article {
			res := make([]domain.Article, len(articles))
			for i, a := range articles {
				a.SimplifiedContent = "simple: " + a.Title
				res[i] = a
			}
			return res
		},
	}
	fetcher := fetcherWith(sampleItems())

	p := New(Params{
		Fetcher:    fetcher,
		Feeds:      []string{"https://feed1", "https://feed2"},
		Window:     24 * time.Hour,
		Ranker:     digest.NewRanker([]string{"ai", "llm"}),
		Selector:   digest.Selector{Limit: 2, SummaryLength: 300},
		Simplifier: simplifier,
		Editions:   editions,
		Now:        func() time.Time { return testNow },
	})

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-11", res.Date, "date key is the UTC date")
	assert.Equal(t, 5, res.Fetched)
	assert.Equal(t, 3, res.Recent)
	assert.Equal(t, 2, res.Editions)
	require.Len(t, res.Articles, 2)
	// both score 1, newer first
	assert.Equal(t, "https://example.com/weather", res.Articles[0].URL)
	assert.Equal(t, "https://example.com/llm", res.Articles[1].URL)
	assert.Equal(t, "simple: New LLM announced", res.Articles[1].SimplifiedContent)

	require.Len(t, fetcher.FetchAllCalls(), 1)
	assert.Equal(t, []string{"https://feed1", "https://feed2"}, fetcher.FetchAllCalls()[0].Urls)
	require.Len(t, editions.AddCalls(), 1)
	assert.Equal(t, "2024-05-11", editions.AddCalls()[0].Date)
	assert.Equal(t, res.Articles, editions.AddCalls()[0].Articles)
}

func TestPipeline_Run_NoContent(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.RawItem
		want  string
	}{
		{name: "empty feed set", items: nil, want: "no content: no items fetched"},
		{name: "nothing recent", items: []domain.RawItem{{Title: "AI", Published: testNow.Add(-72 * time.Hour)}, {Title: "LLM"}},
			want: "no content: no recent items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editions := &mocks.EditionsMock{}
			p := New(Params{
				Fetcher:  fetcherWith(tt.items),
				Editions: editions,
				Now:      func() time.Time { return testNow },
			})

			res, err := p.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrNoContent))
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, editions.AddCalls(), "no edition written")
		})
	}
}

func TestPipeline_Run_EmptyFeedSetWritesNothing(t *testing.T) {
	store := history.NewMemoryStore()
	p := New(Params{
		Fetcher:  fetcherWith(nil),
		Editions: history.NewEditions(store, 90),
	})

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrNoContent)

	h, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.Editions)
}

func TestPipeline_Run_StoreFailure(t *testing.T) {
	editions := &mocks.EditionsMock{
		AddFunc: func(ctx context.Context, date string, articles []domain.Article) (domain.History, error) {
			return domain.History{}, errors.New("save history to /data/news.json: disk full")
		},
	}
	p := New(Params{
		Fetcher:  fetcherWith(sampleItems()),
		Editions: editions,
		Now:      func() time.Time { return testNow },
	})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoContent))
	assert.Equal(t, "store edition 2024-05-11: save history to /data/news.json: disk full", err.Error())
}

func TestPipeline_Run_CanceledKeepsStoredEdition(t *testing.T) {
	editions := &mocks.EditionsMock{}
	ctx, cancel := context.WithCancel(context.Background())
	simplifier := &mocks.SimplifierMock{
		RunFunc: func(ctx context.Context, articles []domain.Article) []domain.Article {
			cancel() // interrupted while simplifying
			return articles
		},
	}
	p := New(Params{
		Fetcher:    fetcherWith(sampleItems()),
		Simplifier: simplifier,
		Editions:   editions,
		Now:        func() time.Time { return testNow },
	})

	res, err := p.Run(ctx)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNoContent))
	assert.Empty(t, editions.AddCalls(), "interrupted run writes nothing")
}

func TestPipeline_Run_WithoutSimplifierUsesSummary(t *testing.T) {
	editions := &mocks.EditionsMock{
		AddFunc: func(ctx context.Context, date string, articles []domain.Article) (domain.History, error) {
			return domain.History{Editions: []domain.Edition{{Date: date, Articles: articles}}}, nil
		},
	}
	p := New(Params{Fetcher: fetcherWith(sampleItems()), Editions: editions, Now: func() time.Time { return testNow }})

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Articles)
	for _, a := range res.Articles {
		assert.Equal(t, a.Summary, a.SimplifiedContent)
	}
	// default selector keeps up to 5, three items are recent
	assert.Len(t, res.Articles, 3)
}

func TestPipeline_Run_EnricherBeforeProjection(t *testing.T) {
	enricher := &mocks.EnricherMock{
		EnrichFunc: func(ctx context.Context, items []domain.ScoredItem) []domain.ScoredItem {
			res := make([]domain.ScoredItem, len(items))
			copy(res, items)
			for i := range res {
				res[i].Body = "extracted " + res[i].Link
			}
			return res
		},
	}
	editions := &mocks.EditionsMock{
		AddFunc: func(ctx context.Context, date string, articles []domain.Article) (domain.History, error) {
			return domain.History{}, nil
		},
	}
	p := New(Params{
		Fetcher:  fetcherWith(sampleItems()),
		Ranker:   digest.NewRanker([]string{"ai", "llm"}),
		Selector: digest.Selector{Limit: 1},
		Enricher: enricher,
		Editions: editions,
		Now:      func() time.Time { return testNow },
	})

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, enricher.EnrichCalls(), 1)
	assert.Len(t, enricher.EnrichCalls()[0].Items, 1, "only selected items enriched")
	assert.Equal(t, "extracted https://example.com/weather", res.Articles[0].Summary)
}

func TestPipeline_Run_SameDateTwiceReplacesEdition(t *testing.T) {
	store := history.NewMemoryStore()
	editions := history.NewEditions(store, 90)
	ranker := digest.NewRanker([]string{"ai"})

	run := func(titles ...string) {
		items := make([]domain.RawItem, 0, len(titles))
		for i, title := range titles {
			items = append(items, domain.RawItem{Title: title, Link: fmt.Sprintf("https://example.com/%s", title),
				Published: testNow.Add(-time.Duration(i+1) * time.Minute)})
		}
		p := New(Params{Fetcher: fetcherWith(items), Ranker: ranker, Editions: editions, Now: func() time.Time { return testNow }})
		_, err := p.Run(context.Background())
		require.NoError(t, err)
	}

	run("ai-one", "ai-two", "ai-three")
	run("ai-four")

	h, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, h.Editions, 1)
	require.Len(t, h.Editions[0].Articles, 1)
	assert.Equal(t, "ai-four", h.Editions[0].Articles[0].Title)
}
