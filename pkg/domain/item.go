package domain

import "time"

// RawItem is a single article as retrieved from one feed, normalized and immutable after creation
type RawItem struct {
	Title     string
	Link      string    // stable identity of the item
	Published time.Time // zero if the feed provided neither published nor updated time
	Body      string    // best available text: content excerpt, raw content or description
	Source    string    // feed title, or feed host if the feed has no title
	GUID      string    // declared guid, or link if absent
	FeedURL   string
}

// ScoredItem is a raw item with its keyword relevance score
type ScoredItem struct {
	RawItem
	Score int
}

// ParsedFeed represents a feed with its normalized items
type ParsedFeed struct {
	Title string
	Link  string
	Items []RawItem
}
