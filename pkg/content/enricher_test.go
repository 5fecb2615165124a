package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/content/mocks"
	"github.com/umputun/newsdigest/pkg/domain"
)

func TestEnricher_Enrich(t *testing.T) {
	long := strings.Repeat("long body ", 30)
	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(ctx context.Context, url string) (string, error) {
			switch url {
			case "https://example.com/thin":
				return "full article text extracted from the page", nil
			case "https://example.com/broken":
				return "", errors.New("403 forbidden")
			case "https://example.com/shorter":
				return "tiny", nil
			}
			return "", errors.New("unexpected url " + url)
		},
	}

	items := []domain.ScoredItem{
		{RawItem: domain.RawItem{Link: "https://example.com/thin", Body: "teaser"}, Score: 3},
		{RawItem: domain.RawItem{Link: "https://example.com/long", Body: long}, Score: 2},
		{RawItem: domain.RawItem{Link: "https://example.com/broken", Body: "short"}, Score: 2},
		{RawItem: domain.RawItem{Link: "https://example.com/shorter", Body: "short body"}, Score: 1},
		{RawItem: domain.RawItem{Body: "no link"}, Score: 1},
	}

	res := Enricher{Extractor: extractor, MinTextLength: 200}.Enrich(context.Background(), items)
	require.Len(t, res, 5)

	assert.Equal(t, "full article text extracted from the page", res[0].Body)
	assert.Equal(t, long, res[1].Body, "long body not extracted")
	assert.Equal(t, "short", res[2].Body, "failure keeps body")
	assert.Equal(t, "short body", res[3].Body, "shorter extraction ignored")
	assert.Equal(t, "no link", res[4].Body)

	for i := range items {
		assert.Equal(t, items[i].Link, res[i].Link, "order kept")
		assert.Equal(t, items[i].Score, res[i].Score, "score kept")
	}
	assert.Equal(t, "teaser", items[0].Body, "input not modified")
	assert.Len(t, extractor.ExtractCalls(), 3)
}

func TestEnricher_NoExtractor(t *testing.T) {
	items := []domain.ScoredItem{{RawItem: domain.RawItem{Link: "https://example.com", Body: "x"}}}
	res := Enricher{MinTextLength: 100}.Enrich(context.Background(), items)
	assert.Equal(t, items, res)
}
