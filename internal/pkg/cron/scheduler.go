package cron

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means the run may last until Stop.
	Timeout time.Duration
	// Immediate runs the job once at Start instead of after the first interval.
	Immediate bool
	Fn        func(ctx context.Context) error

	running atomic.Bool
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   []*Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job. Jobs with a non-positive interval are ignored.
func (s *Scheduler) Add(job *Job) {
	if job.Interval <= 0 {
		slog.Warn("cron job disabled", "name", job.Name)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	slog.Info("cron job registered", "name", job.Name, "interval", job.Interval.String())
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("stopping cron scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("cron scheduler stopped")
}

func (s *Scheduler) runJob(job *Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	if job.Immediate {
		s.executeJob(s.ctx, job)
	}

	for {
		select {
		case <-s.ctx.Done():
			slog.Debug("cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, job)
		}
	}
}

// executeJob runs job once unless a previous run is still in flight.
func (s *Scheduler) executeJob(ctx context.Context, job *Job) bool {
	if !job.running.CompareAndSwap(false, true) {
		slog.Warn("cron job still running, skipping tick", "name", job.Name)
		return false
	}
	defer job.running.Store(false)

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("cron job failed", "name", job.Name, "error", err, "duration", time.Since(start).String())
	} else {
		slog.Debug("cron job completed", "name", job.Name, "duration", time.Since(start).String())
	}
	return true
}

// RunOnce runs every job once, synchronously
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]*Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.executeJob(ctx, job)
	}
}
