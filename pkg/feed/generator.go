package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/domain"
)

// Generator creates RSS and OPML documents from published editions and configured feeds
type Generator struct {
	baseURL string
	title   string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL, title string) *Generator {
	if title == "" {
		title = "AI News Digest"
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		title:   title,
	}
}

// GenerateRSS creates an RSS 2.0 feed from editions, newest edition first
func (g *Generator) GenerateRSS(editions []domain.Edition) (string, error) {
	rssItems := make([]*RSSItem, 0)
	for _, ed := range editions {
		for _, a := range ed.Articles {
			rssItems = append(rssItems, g.convertToRSSItem(ed.Date, a))
		}
	}

	lastBuild := time.Now().UTC()
	if len(editions) > 0 {
		if d, err := time.Parse(domain.DateLayout, editions[0].Date); err == nil {
			lastBuild = d
		}
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         g.title,
			Link:          g.baseURL + "/",
			Description:   "Daily top AI stories explained in plain language",
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: lastBuild.Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts an article of the edition to an RSS item
func (g *Generator) convertToRSSItem(date string, a domain.Article) *RSSItem {
	desc := a.SimplifiedContent
	if desc == "" {
		desc = a.Summary
	}

	guid := a.GUID
	if guid == "" {
		guid = a.URL
	}

	pubDate := ""
	if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		pubDate = ts.Format(time.RFC1123Z)
	}

	return &RSSItem{
		Title:       a.Title,
		Link:        a.URL,
		GUID:        guid,
		Description: desc,
		Source:      a.Source,
		PubDate:     pubDate,
		Categories:  []string{date},
	}
}

// GenerateOPML creates an OPML file with feed subscriptions
func (g *Generator) GenerateOPML(feeds []config.Feed) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(feeds))
	for _, f := range feeds {
		name := f.Name
		if name == "" {
			name = f.URL
		}
		outlines = append(outlines, outline{Text: name, Title: name, Type: "rss", XMLUrl: f.URL})
	}

	doc := opml{
		Version: "2.0",
		Head: head{
			Title:       g.title + " Sources",
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
		Body: body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
