package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/llm/mocks"
)

func batchArticles(n int) []domain.Article {
	res := make([]domain.Article, 0, n)
	for i := range n {
		res = append(res, domain.Article{Title: fmt.Sprintf("title %d", i), Summary: fmt.Sprintf("summary %d", i)})
	}
	return res
}

func TestBatch_Run(t *testing.T) {
	simplifier := &mocks.SimplifierMock{
		SimplifyFunc: func(ctx context.Context, a domain.Article) (string, error) {
			if a.Title == "title 2" {
				return "", errors.New("rate limited")
			}
			return "simple " + a.Title, nil
		},
	}

	in := batchArticles(4)
	res := Batch{Simplifier: simplifier, Concurrency: 2}.Run(context.Background(), in)

	require.Len(t, res, 4)
	assert.Equal(t, "simple title 0", res[0].SimplifiedContent)
	assert.Equal(t, "simple title 1", res[1].SimplifiedContent)
	assert.Equal(t, "summary 2", res[2].SimplifiedContent, "failure falls back to summary")
	assert.Equal(t, "simple title 3", res[3].SimplifiedContent)
	for i := range res {
		assert.Equal(t, in[i].Title, res[i].Title, "order preserved")
		assert.Empty(t, in[i].SimplifiedContent, "input not modified")
	}
	assert.Len(t, simplifier.SimplifyCalls(), 4)
}

func TestBatch_Run_NoSimplifier(t *testing.T) {
	res := Batch{}.Run(context.Background(), batchArticles(3))
	require.Len(t, res, 3)
	for i, a := range res {
		assert.Equal(t, fmt.Sprintf("summary %d", i), a.SimplifiedContent)
	}
}

func TestBatch_Run_Empty(t *testing.T) {
	simplifier := &mocks.SimplifierMock{}
	res := Batch{Simplifier: simplifier}.Run(context.Background(), nil)
	assert.Empty(t, res)
	assert.Empty(t, simplifier.SimplifyCalls())
}

func TestBatch_Run_ConcurrencyLimit(t *testing.T) {
	var active, peak int32
	simplifier := &mocks.SimplifierMock{
		SimplifyFunc: func(ctx context.Context, a domain.Article) (string, error) {
			cur := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return "ok", nil
		},
	}

	res := Batch{Simplifier: simplifier, Concurrency: 3}.Run(context.Background(), batchArticles(9))
	require.Len(t, res, 9)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestBatch_Run_Interval(t *testing.T) {
	var mu sync.Mutex
	var starts []time.Time
	simplifier := &mocks.SimplifierMock{
		SimplifyFunc: func(ctx context.Context, a domain.Article) (string, error) {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
			return "ok", nil
		},
	}

	begin := time.Now()
	Batch{Simplifier: simplifier, Concurrency: 4, Interval: 50 * time.Millisecond}.Run(context.Background(), batchArticles(4))

	// first call immediately, then one per interval
	assert.GreaterOrEqual(t, time.Since(begin), 140*time.Millisecond)
	require.Len(t, starts, 4)
}

func TestBatch_Run_CanceledContext(t *testing.T) {
	simplifier := &mocks.SimplifierMock{
		SimplifyFunc: func(ctx context.Context, a domain.Article) (string, error) {
			return "simple", nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Batch{Simplifier: simplifier, Interval: time.Hour}.Run(ctx, batchArticles(2))
	require.Len(t, res, 2)
	assert.Equal(t, "summary 0", res[0].SimplifiedContent)
	assert.Equal(t, "summary 1", res[1].SimplifiedContent)
}
