// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scheduler runs background maintenance jobs on cron expressions.

The portal uses it to purge idle browser storage namespaces from the memory
and PostgreSQL backends (Redis expires them on its own) and to sweep idle
auto-capture state. The outcome of each job's last run is exposed through
[Scheduler.Check] so /ready reports a failing job.

Every job runs in singleton mode, so a slow purge is never overlapped by the
next tick.
*/
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Task is the body of a scheduled job. The context is cancelled on Stop.
type Task func(ctx context.Context) error

// JobInfo is a snapshot of one registered job.
type JobInfo struct {
	ID       string
	CronExpr string
	LastRun  *time.Time
	LastErr  error
	NextRun  time.Time
}

// Scheduler wraps a gocron scheduler with named jobs and structured logging.
type Scheduler struct {
	scheduler *gocron.Scheduler
	logger    *slog.Logger

	mu      sync.RWMutex
	jobs    map[string]*jobEntry
	running bool

	ctx    context.Context
	cancel context.CancelFunc
}

type jobEntry struct {
	cronExpr string
	job      *gocron.Job
	lastRun  *time.Time
	lastErr  error
}

// New creates a stopped scheduler running in UTC.
func New(logger *slog.Logger) *Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "scheduler")),
		jobs:      make(map[string]*jobEntry),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddJob registers task under id on a five-field cron expression.
func (s *Scheduler) AddJob(id, cronExpr string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("scheduler: job %q already exists", id)
	}

	entry := &jobEntry{cronExpr: cronExpr}

	job, err := s.scheduler.Cron(cronExpr).Tag(id).Do(func() {
		s.run(id, entry, task)
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid cron expression %q: %w", cronExpr, err)
	}

	entry.job = job
	s.jobs[id] = entry

	s.logger.Info("job_added",
		slog.String("job_id", id),
		slog.String("cron_expr", cronExpr),
	)
	return nil
}

// run executes one job invocation and records its outcome.
func (s *Scheduler) run(id string, entry *jobEntry, task Task) {
	startTime := time.Now()
	err := task(s.ctx)

	s.mu.Lock()
	entry.lastRun = &startTime
	entry.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job_failed",
			slog.String("job_id", id),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Debug("job_finished",
		slog.String("job_id", id),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)
}

// Start begins executing jobs asynchronously. Starting twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	s.logger.Info("scheduler_started", slog.Int("jobs", len(s.jobs)))
}

// Stop cancels running tasks and halts the scheduler. Stopping twice is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.scheduler.Stop()
	s.running = false
	s.logger.Info("scheduler_stopped")
}

// Job returns a snapshot of the job registered under id.
func (s *Scheduler) Job(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.jobs[id]
	if !exists {
		return JobInfo{}, false
	}

	info := JobInfo{
		ID:       id,
		CronExpr: entry.cronExpr,
		LastErr:  entry.lastErr,
		NextRun:  entry.job.NextRun(),
	}
	if entry.lastRun != nil {
		lastRun := *entry.lastRun
		info.LastRun = &lastRun
	}
	return info, true
}

// Check returns a readiness check that fails while the last run of job id
// returned an error. A job that has not run yet is healthy.
func (s *Scheduler) Check(id string) func(ctx context.Context) error {
	return func(context.Context) error {
		info, exists := s.Job(id)
		if !exists {
			return fmt.Errorf("scheduler: job %q not found", id)
		}
		if info.LastErr != nil {
			return fmt.Errorf("scheduler: last %s run at %s failed: %w",
				id, info.LastRun.Format(time.RFC3339), info.LastErr)
		}
		return nil
	}
}

// RunNow executes the job registered under id immediately, outside its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	_, exists := s.jobs[id]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("scheduler: job %q not found", id)
	}
	return s.scheduler.RunByTag(id)
}
