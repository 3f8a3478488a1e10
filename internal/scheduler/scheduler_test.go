package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAfterExecutesTask(t *testing.T) {
	s := New(nil)

	var ran atomic.Bool
	s.RunAfter(0, "test-task", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	require.True(t, s.Drain(2*time.Second), "scheduler did not drain")
	assert.True(t, ran.Load())
}

func TestRunAfterHonorsDelay(t *testing.T) {
	s := New(nil)

	start := time.Now()
	var elapsed atomic.Int64
	s.RunAfter(50*time.Millisecond, "delayed-task", func(ctx context.Context) error {
		elapsed.Store(int64(time.Since(start)))
		return nil
	})

	require.True(t, s.Drain(2*time.Second))
	assert.GreaterOrEqual(t, time.Duration(elapsed.Load()), 50*time.Millisecond)
}

func TestTaskFailureDoesNotAffectOthers(t *testing.T) {
	s := New(nil)

	var completed atomic.Int32
	s.RunAfter(0, "failing-task", func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	s.RunAfter(0, "panicking-task", func(ctx context.Context) error {
		panic("boom")
	})
	for i := 0; i < 5; i++ {
		s.RunAfter(0, "ok-task", func(ctx context.Context) error {
			completed.Add(1)
			return nil
		})
	}

	require.True(t, s.Drain(2*time.Second))
	assert.Equal(t, int32(5), completed.Load())
}

func TestShutdownDropsNewTasks(t *testing.T) {
	s := New(nil)

	var before, after atomic.Bool
	s.RunAfter(0, "before-shutdown", func(ctx context.Context) error {
		before.Store(true)
		return nil
	})

	require.True(t, s.Shutdown(2*time.Second))

	s.RunAfter(0, "after-shutdown", func(ctx context.Context) error {
		after.Store(true)
		return nil
	})
	s.Drain(100 * time.Millisecond)

	assert.True(t, before.Load())
	assert.False(t, after.Load())
}

func TestRunEveryFiresUntilStopped(t *testing.T) {
	s := New(nil)

	var fired atomic.Int32
	stop := make(chan struct{})
	s.RunEvery(10*time.Millisecond, "periodic", func(ctx context.Context) error {
		fired.Add(1)
		return nil
	}, stop)

	time.Sleep(60 * time.Millisecond)
	close(stop)
	require.True(t, s.Drain(time.Second))

	count := fired.Load()
	assert.Greater(t, count, int32(1))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, fired.Load(), "task fired after stop")
}
