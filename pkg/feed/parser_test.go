package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Test Feed</title>
	<link>http://example.com</link>
	<description>Test Description</description>
	<item>
		<title>Test Article 1</title>
		<link>http://example.com/article1</link>
		<description>Article 1 description</description>
		<content:encoded><![CDATA[<p>Full content of <b>article</b> 1</p><script>alert(1)</script>]]></content:encoded>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		<guid>guid-1</guid>
	</item>
	<item>
		<title>Test Article 2</title>
		<link>http://example.com/article2</link>
		<description>Article 2 &amp; more</description>
	</item>
</channel>
</rss>`

	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssContent))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "NewsDigest-Bot/1.0")
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "NewsDigest-Bot/1.0", gotUA)
	assert.Contains(t, gotAccept, "application/rss+xml")
	assert.Equal(t, "Test Feed", feed.Title)
	require.Len(t, feed.Items, 2)

	item1 := feed.Items[0]
	assert.Equal(t, "Test Article 1", item1.Title)
	assert.Equal(t, "http://example.com/article1", item1.Link)
	assert.Equal(t, "Full content of article 1", item1.Body)
	assert.Equal(t, "guid-1", item1.GUID)
	assert.Equal(t, "Test Feed", item1.Source)
	assert.Equal(t, server.URL, item1.FeedURL)
	assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), item1.Published)

	// no guid, no date, description only
	item2 := feed.Items[1]
	assert.Equal(t, "http://example.com/article2", item2.GUID)
	assert.True(t, item2.Published.IsZero())
	assert.Equal(t, "Article 2 & more", item2.Body)
}

func TestParser_Parse_AtomFeed(t *testing.T) {
	atomContent := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<link href="http://example.com"/>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.com/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<updated>2006-01-02T15:04:05Z</updated>
		<summary>Entry 1 summary</summary>
	</entry>
</feed>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomContent))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "test")
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, "Atom Entry 1", item.Title)
	assert.Equal(t, "urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a", item.GUID)
	assert.Equal(t, "Entry 1 summary", item.Body)
	assert.Equal(t, "127.0.0.1", item.Source, "feed without title uses host as source")
	// updated time is the fallback for missing published time
	assert.Equal(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), item.Published)
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Run("HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewParser(5*time.Second, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("Invalid XML", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not xml"))
		}))
		defer server.Close()

		_, err := NewParser(5*time.Second, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("too late"))
		}))
		defer server.Close()

		_, err := NewParser(50*time.Millisecond, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("Invalid URL", func(t *testing.T) {
		_, err := NewParser(5*time.Second, "test").Parse(context.Background(), "not-a-url")
		require.Error(t, err)
	})
}

func TestNormalizeItem_Body(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		description string
		want        string
	}{
		{name: "content text", content: "<p>full <b>text</b></p>", description: "desc", want: "full text"},
		{name: "no content", description: "<p>only description</p>", want: "only description"},
		{name: "markup-only content falls to description", content: `<img src="https://example.com/a.png"/>`,
			description: "<p>image caption</p>", want: "image caption"},
		{name: "markup-only everywhere", content: `<img src="a.png"/>`, description: "<br/>", want: ""},
		{name: "nothing", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &gofeed.Item{Title: "t", Link: "https://example.com/1", Content: tt.content, Description: tt.description}
			res := normalizeItem(item, "src", "https://example.com/feed")
			assert.Equal(t, tt.want, res.Body)
			assert.NotContains(t, res.Body, "<")
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "just text", "just text"},
		{"paragraphs", "<p>one</p><p>two</p>", "one two"},
		{"entities", "Tom &amp; Jerry&#39;s", "Tom & Jerry's"},
		{"script and style dropped", "<style>p{}</style>a<script>x()</script>b", "ab"},
		{"whitespace collapsed", "  a \n\n\t b  ", "a b"},
		{"line breaks", "a<br/>b", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}
