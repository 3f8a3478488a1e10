// Package scheduler provides fire-and-forget deferred execution for
// side-effecting follow-up work: counter updates, fan-out, notification
// emission and cascade cleanup all run here, after the triggering
// request has already returned. Tasks are independent of each other and
// of the caller: no ordering across tasks, no cancellation once
// enqueued, no retry on failure. Failures are logged and dropped, since
// the original caller has already received its response.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task is a unit of deferred work
type Task func(ctx context.Context) error

// Scheduler runs tasks asynchronously after an optional delay
type Scheduler struct {
	log    *zap.Logger
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New creates a Scheduler logging through the given zap logger
func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{log: log}
}

// RunAfter enqueues a task to execute asynchronously once delay has
// elapsed. In practice every caller passes 0: the point is not the
// delay but running outside the triggering request. The task gets a
// fresh background context and a correlation ID for its log lines.
// Enqueueing after Shutdown is a no-op.
func (s *Scheduler) RunAfter(delay time.Duration, name string, task Task) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("scheduler closed, dropping task", zap.String("task", name))
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	taskID := uuid.NewString()

	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("scheduled task panicked",
					zap.String("task", name),
					zap.String("task_id", taskID),
					zap.Any("panic", r),
				)
			}
		}()

		if delay > 0 {
			time.Sleep(delay)
		}

		start := time.Now()
		if err := task(context.Background()); err != nil {
			// No retry and no report back to the caller; the log line is
			// the only trace of an asynchronous failure.
			s.log.Error("scheduled task failed",
				zap.String("task", name),
				zap.String("task_id", taskID),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return
		}

		s.log.Debug("scheduled task completed",
			zap.String("task", name),
			zap.String("task_id", taskID),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()
}

// RunEvery starts a periodic task (e.g. the expired-story sweep) that
// fires on each tick until stop is closed.
func (s *Scheduler) RunEvery(interval time.Duration, name string, task Task, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.RunAfter(0, name, task)
			}
		}
	}()
}

// Drain blocks until every enqueued task has finished or the timeout
// expires. Used for graceful shutdown and by tests to reach quiescence.
// Returns true if all tasks completed in time.
func (s *Scheduler) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Shutdown stops accepting new tasks and drains in-flight ones
func (s *Scheduler) Shutdown(timeout time.Duration) bool {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Drain(timeout)
}
