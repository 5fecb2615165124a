package server

import (
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/feed"
)

// rssHandler serves RSS feed of the latest edition, or of all editions with ?all=1
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.History(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load history for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	editions := h.Editions
	if r.URL.Query().Get("all") == "" || r.URL.Query().Get("all") == "0" {
		editions = []domain.Edition{}
		if ed, ok := h.Latest(); ok {
			editions = append(editions, ed)
		}
	}

	generator := feed.NewGenerator(s.config.GetBaseURL(), "")
	rss, err := generator.GenerateRSS(editions)
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}

// opmlHandler serves the configured feeds as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, _ *http.Request) {
	generator := feed.NewGenerator(s.config.GetBaseURL(), "")
	opml, err := generator.GenerateOPML(s.config.GetFeeds())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	if _, err := w.Write([]byte(opml)); err != nil {
		lgr.Printf("[ERROR] failed to write OPML response: %v", err)
	}
}
