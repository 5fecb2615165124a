package digest

import (
	"sort"
	"strings"

	"github.com/umputun/newsdigest/pkg/domain"
)

// DefaultKeywords is the default AI topic vocabulary
var DefaultKeywords = []string{
	"artificial intelligence", "ai", "machine learning", "ml", "deep learning",
	"neural network", "gpt", "llm", "large language model", "generative ai",
	"chatbot", "openai", "anthropic", "google ai", "microsoft ai",
	"computer vision", "nlp", "natural language", "transformer",
	"ai model", "ai research", "ai ethics", "ai regulation",
}

// Ranker scores items against a keyword vocabulary
type Ranker struct {
	keywords []string
}

// NewRanker makes a ranker for the given vocabulary. Keywords are matched case-insensitively,
// empty and duplicate entries are dropped.
func NewRanker(keywords []string) *Ranker {
	seen := make(map[string]bool, len(keywords))
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kw = append(kw, k)
	}
	return &Ranker{keywords: kw}
}

// Keywords returns the normalized vocabulary
func (r *Ranker) Keywords() []string {
	res := make([]string, len(r.keywords))
	copy(res, r.keywords)
	return res
}

// Score returns the number of distinct keywords found as a substring of title and body.
// Each keyword counts once no matter how often it occurs.
func (r *Ranker) Score(item domain.RawItem) int {
	text := strings.ToLower(item.Title + " " + item.Body)
	score := 0
	for _, k := range r.keywords {
		if strings.Contains(text, k) {
			score++
		}
	}
	return score
}

// Rank scores items and orders them by score desc, then publication time desc.
// Items equal on both keys keep their input order. The input slice is not modified.
func (r *Ranker) Rank(items []domain.RawItem) []domain.ScoredItem {
	res := make([]domain.ScoredItem, len(items))
	for i, item := range items {
		res[i] = domain.ScoredItem{RawItem: item, Score: r.Score(item)}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Published.After(res[j].Published)
	})
	return res
}
