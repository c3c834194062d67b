package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueRunsJob(t *testing.T) {
	w := NewWorker(1, 4)
	defer w.Shutdown()

	done := make(chan struct{})
	require.NoError(t, w.Enqueue("test", func(ctx context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Eventually(t, func() bool {
		return w.GetStats().CompletedJobs == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_FailuresAndPanicsAreCounted(t *testing.T) {
	w := NewWorker(1, 4)
	defer w.Shutdown()

	require.NoError(t, w.Enqueue("fails", func(ctx context.Context) error { return errors.New("boom") }))
	require.NoError(t, w.Enqueue("panics", func(ctx context.Context) error { panic("bad job") }))

	assert.Eventually(t, func() bool {
		s := w.GetStats()
		return s.CompletedJobs == 2 && s.FailedJobs == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "panics", w.GetStats().LastJob)
}

func TestWorker_EnqueueFullQueue(t *testing.T) {
	w := NewWorker(1, 1)
	defer w.Shutdown()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, w.Enqueue("blocker", func(ctx context.Context) error {
		close(started)
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	}))
	<-started

	require.NoError(t, w.Enqueue("queued", func(ctx context.Context) error { return nil }))
	assert.ErrorIs(t, w.Enqueue("overflow", func(ctx context.Context) error { return nil }), ErrQueueFull)
	close(block)
}

func TestWorker_EnqueueAfterShutdown(t *testing.T) {
	w := NewWorker(1, 1)
	w.Shutdown()

	assert.ErrorIs(t, w.Enqueue("late", func(ctx context.Context) error { return nil }), ErrStopped)
}

func TestWorker_ScheduleEveryImmediate(t *testing.T) {
	w := NewWorker(1, 1)
	defer w.Shutdown()

	var runs atomic.Int32
	w.ScheduleEveryImmediate("tick", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_ScheduleDisabledForNonPositiveInterval(t *testing.T) {
	w := NewWorker(1, 1)
	defer w.Shutdown()

	var runs atomic.Int32
	w.ScheduleEveryImmediate("never", 0, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, runs.Load())
}
