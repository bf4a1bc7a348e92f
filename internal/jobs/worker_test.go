package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_RunsQueuedAndAsyncJobs(t *testing.T) {
	w := NewWorker(2)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		w.Enqueue(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	w.EnqueueAsync(func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("smtp unavailable")
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		panic("boom")
	})

	assert.Eventually(t, func() bool {
		return w.GetStats().CompletedJobs == 7
	}, 2*time.Second, 10*time.Millisecond)

	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int32(6), ran.Load())
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
}

func TestWorker_ScheduleStopsOnShutdown(t *testing.T) {
	w := NewWorker(1)

	var ticks atomic.Int32
	w.ScheduleEveryImmediate(5*time.Millisecond, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Shutdown()

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
	assert.Error(t, w.Context().Err())
}
