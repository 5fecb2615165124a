package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/pipeline"
)

// statusHandler returns server status with the outcome of the last publish
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"publish": s.publisher.Status(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// editionsHandler returns the whole history document
func (s *Server) editionsHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.History(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if h.Editions == nil {
		h.Editions = []domain.Edition{}
	}
	renderJSON(w, r, http.StatusOK, h)
}

// latestEditionHandler returns the most recently written edition
func (s *Server) latestEditionHandler(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.History(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	ed, ok := h.Latest()
	if !ok {
		renderError(w, r, errors.New("no editions published"), http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, ed)
}

// editionHandler returns the edition of a date, /api/v1/editions/{date}
func (s *Server) editionHandler(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		renderError(w, r, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date), http.StatusBadRequest)
		return
	}

	h, err := s.history.History(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to load history: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	ed, ok := h.Find(date)
	if !ok {
		renderError(w, r, fmt.Errorf("no edition for %s", date), http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, ed)
}

// publishHandler runs the pipeline and returns its result.
// The run is detached from the request, a client disconnect doesn't cancel it.
func (s *Server) publishHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.publisher.RunNow(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, pipeline.ErrNoContent):
		lgr.Printf("[INFO] manual publish has nothing to publish: %v", err)
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		lgr.Printf("[ERROR] manual publish failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
	default:
		renderJSON(w, r, http.StatusOK, res)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
