package services

import (
	"context"
	"testing"
	"time"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeperFailsStaleAndRequeuesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	old := now.Add(-time.Hour)

	mk := func(status models.TaskStatus, startedAt *time.Time, createdAt time.Time) *models.Task {
		task := &models.Task{
			Kind:           models.TaskKindAnalyzeDocument,
			Status:         status,
			OwnerID:        f.user.ID,
			OrganizationID: f.org.ID,
			StartedAt:      startedAt,
			CreatedAt:      createdAt,
		}
		require.NoError(t, f.tasks.Create(ctx, task))
		return task
	}
	stale := mk(models.TaskStatusProcessing, &old, old)
	fresh := mk(models.TaskStatusProcessing, &now, now)
	orphan := mk(models.TaskStatusPending, nil, old)
	recent := mk(models.TaskStatusPending, nil, now)
	done := mk(models.TaskStatusCompleted, &old, old)

	sweeper := NewSweeper(f.tasks, f.queue, SweeperConfig{
		Interval:           time.Minute,
		ProcessingDeadline: 10 * time.Minute,
		RequeueAfter:       time.Minute,
	}, nil)

	stats, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepStats{Failed: 1, Requeued: 1}, stats)

	got := f.reload(t, stale.ID)
	assert.Equal(t, models.TaskStatusFailed, got.Status)
	assert.Equal(t, DeadlineExceededMessage, got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)

	assert.Equal(t, models.TaskStatusProcessing, f.reload(t, fresh.ID).Status)
	assert.Equal(t, models.TaskStatusPending, f.reload(t, recent.ID).Status)
	assert.Equal(t, models.TaskStatusCompleted, f.reload(t, done.ID).Status)

	require.Equal(t, 1, f.queue.Len())
	id, err := f.queue.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, orphan.ID, id)

	// The orphan was just dispatched, so the next pass leaves it alone.
	stats, err = sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepStats{}, stats)
	assert.NotNil(t, f.reload(t, orphan.ID).DispatchedAt)
}

func TestSweeperDoesNotDuplicateQueuedBacklog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		task := &models.Task{
			Kind:           models.TaskKindAnalyzeDocument,
			Status:         models.TaskStatusPending,
			OwnerID:        f.user.ID,
			OrganizationID: f.org.ID,
			CreatedAt:      now.Add(-time.Hour),
		}
		require.NoError(t, f.tasks.Create(ctx, task))
	}

	sweeper := NewSweeper(f.tasks, f.queue, SweeperConfig{RequeueAfter: time.Minute}, nil)
	sweeper.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		_, err := sweeper.Sweep(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.queue.Len())

	// Once the last dispatch has aged past RequeueAfter the backlog is retried.
	sweeper.now = func() time.Time { return now.Add(2 * time.Minute) }
	stats, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Requeued)
	assert.Equal(t, 6, f.queue.Len())
}

func TestSweeperStopsRequeueWhenQueueIsFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := time.Now().Add(-time.Hour)

	var ids []uint
	for i := 0; i < 3; i++ {
		task := &models.Task{
			Kind:           models.TaskKindAnalyzeDocument,
			Status:         models.TaskStatusPending,
			OwnerID:        f.user.ID,
			OrganizationID: f.org.ID,
			CreatedAt:      old,
		}
		require.NoError(t, f.tasks.Create(ctx, task))
		ids = append(ids, task.ID)
	}

	small := queue.NewMemoryQueue(2)
	sweeper := NewSweeper(f.tasks, small, SweeperConfig{RequeueAfter: time.Minute}, nil)

	stats, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Requeued)
	assert.Equal(t, 2, small.Len())
	assert.Nil(t, f.reload(t, ids[2]).DispatchedAt)
}

func TestSweeperStartStopsWithContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	old := time.Now().Add(-time.Hour)
	task := &models.Task{
		Kind:           models.TaskKindClassifyDocuments,
		Status:         models.TaskStatusProcessing,
		OwnerID:        f.user.ID,
		OrganizationID: f.org.ID,
		StartedAt:      &old,
	}
	require.NoError(t, f.tasks.Create(ctx, task))

	sweeper := NewSweeper(f.tasks, f.queue, SweeperConfig{
		Interval:           10 * time.Millisecond,
		ProcessingDeadline: time.Minute,
	}, nil)

	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		got, err := f.tasks.Get(context.Background(), task.ID)
		return err == nil && got.Status == models.TaskStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
