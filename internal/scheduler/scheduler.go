// Package scheduler runs recurring background jobs on a fixed interval.
package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Job is the unit of work executed on each tick.
type Job func(ctx context.Context) error

// Scheduler triggers a job at a fixed interval. Runs never overlap: a tick
// or RunNow call arriving while a run is in flight is skipped. Stop waits
// for an in-flight run to finish; it does not abort mid-run.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job

	running  atomic.Bool
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// New creates a scheduler for the named job.
func New(name string, interval time.Duration, job Job) *Scheduler {
	return &Scheduler{name: name, interval: interval, job: job}
}

// Start begins ticking in the background.
func (s *Scheduler) Start(ctx context.Context) {
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	go s.run(ctx)
	log.Printf("%s scheduler started (interval %s)", s.name, s.interval)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunNow(ctx)
		}
	}
}

// RunNow executes the job immediately unless a run is already in flight,
// in which case it reports false.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		log.Printf("%s scheduler: previous run still in flight, skipping", s.name)
		return false
	}
	defer s.running.Store(false)

	if err := s.job(ctx); err != nil {
		log.Printf("%s scheduler: run failed: %v", s.name, err)
	}
	return true
}

// Stop signals the scheduler and waits for the current run to finish, or
// for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.stopChan == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	select {
	case <-s.doneChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
