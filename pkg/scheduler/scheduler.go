// Package scheduler runs the publish pipeline periodically in serve mode
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsdigest/pkg/pipeline"
)

//go:generate moq -out mocks/publisher.go -pkg mocks -skip-ensure -fmt goimports . Publisher

// Publisher runs one publish operation
type Publisher interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler manages periodic publishing. Runs never overlap, the scheduled run and
// manual RunNow calls are serialized to avoid lost history updates.
type Scheduler struct {
	publisher Publisher
	interval  time.Duration

	runMu  sync.Mutex // serialize publish runs
	wg     sync.WaitGroup
	cancel context.CancelFunc

	lastMu   sync.RWMutex
	lastRun  time.Time
	lastErr  error
	lastDate string
}

// Status reports the outcome of the last run
type Status struct {
	LastRun  time.Time `json:"last_run"`
	LastDate string    `json:"last_date,omitempty"`
	LastErr  string    `json:"last_error,omitempty"`
	Interval string    `json:"interval"`
}

// NewScheduler creates a new scheduler instance, interval defaults to 24h
func NewScheduler(publisher Publisher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{publisher: publisher, interval: interval}
}

// Start runs the publisher immediately and then every interval until Stop or ctx cancellation
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.publishWorker(ctx)

	lgr.Printf("[INFO] scheduler started with publish interval %v", s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// RunNow publishes immediately, waiting for a run in progress to finish first
func (s *Scheduler) RunNow(ctx context.Context) (*pipeline.Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	res, err := s.publisher.Run(ctx)

	s.lastMu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	if res != nil {
		s.lastDate = res.Date
	}
	s.lastMu.Unlock()

	return res, err
}

// Status returns the outcome of the last run
func (s *Scheduler) Status() Status {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	st := Status{LastRun: s.lastRun, LastDate: s.lastDate, Interval: s.interval.String()}
	if s.lastErr != nil {
		st.LastErr = s.lastErr.Error()
	}
	return st
}

// publishWorker publishes on start and on every tick
func (s *Scheduler) publishWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.publish(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publish(ctx)
		}
	}
}

func (s *Scheduler) publish(ctx context.Context) {
	res, err := s.RunNow(ctx)
	switch {
	case errors.Is(err, pipeline.ErrNoContent):
		lgr.Printf("[INFO] nothing to publish: %v", err)
	case errors.Is(err, context.Canceled):
		lgr.Printf("[INFO] publish interrupted: %v", err)
	case err != nil:
		lgr.Printf("[ERROR] publish failed: %v", err)
	default:
		lgr.Printf("[INFO] scheduled publish of %s completed, %d articles", res.Date, len(res.Articles))
	}
}
