package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sjperalta/salesdesk-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_TracksRecurringJobs(t *testing.T) {
	worker := jobs.NewWorker(1)
	service := NewJobService(worker)

	service.Every("refresh_token_purge", time.Hour, true, func(ctx context.Context) error { return nil })
	service.Every("analytics_cache_cleanup", time.Hour, true, func(ctx context.Context) error {
		return errors.New("database is locked")
	})
	service.Every("meeting_reminders", 24*time.Hour, false, func(ctx context.Context) error { return nil })

	assert.Eventually(t, func() bool {
		return worker.GetStats().CompletedJobs == 2
	}, 2*time.Second, 10*time.Millisecond)
	worker.Shutdown()

	status := service.Status()
	require.Len(t, status.Recurring, 3)
	assert.Equal(t, []string{"analytics_cache_cleanup", "meeting_reminders", "refresh_token_purge"},
		[]string{status.Recurring[0].Name, status.Recurring[1].Name, status.Recurring[2].Name})

	cleanup := status.Recurring[0]
	assert.Equal(t, int64(1), cleanup.Runs)
	assert.Equal(t, "database is locked", cleanup.LastError)
	assert.NotNil(t, cleanup.LastRun)

	reminders := status.Recurring[1]
	assert.Equal(t, "24h0m0s", reminders.Interval)
	assert.Nil(t, reminders.LastRun)
	assert.Equal(t, int64(0), reminders.Runs)

	assert.Equal(t, int64(1), status.Worker.FailedJobs)
}
