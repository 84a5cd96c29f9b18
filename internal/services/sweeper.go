package services

import (
	"context"
	"errors"
	"time"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/queue"
	"adlaan-backend/pkg/logger"

	"go.uber.org/zap"
)

// DeadlineExceededMessage is recorded on tasks failed by the sweeper.
const DeadlineExceededMessage = "task exceeded processing deadline"

type SweeperConfig struct {
	Interval           time.Duration
	ProcessingDeadline time.Duration
	RequeueAfter       time.Duration
}

// Sweeper periodically fails tasks stuck in PROCESSING and re-dispatches
// tasks left in PENDING.
type Sweeper struct {
	tasks TaskStore
	queue queue.Queue
	cfg   SweeperConfig
	now   func() time.Time
	log   *zap.Logger
}

// SweepStats counts what one sweep did.
type SweepStats struct {
	Failed   int `json:"failed"`
	Requeued int `json:"requeued"`
}

func NewSweeper(tasks TaskStore, q queue.Queue, cfg SweeperConfig, log *zap.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if log == nil {
		log = logger.Named("sweeper")
	}
	return &Sweeper{tasks: tasks, queue: q, cfg: cfg, now: time.Now, log: log}
}

// Start runs a sweep every interval until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Sweeper started", zap.Duration("interval", s.cfg.Interval))
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("Sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) (SweepStats, error) {
	var stats SweepStats
	now := s.now()

	if s.cfg.ProcessingDeadline > 0 {
		stale, err := s.tasks.ListProcessingStartedBefore(ctx, now.Add(-s.cfg.ProcessingDeadline))
		if err != nil {
			return stats, err
		}
		for _, task := range stale {
			err := s.tasks.Transition(ctx, task.ID, models.TaskStatusProcessing, models.TaskStatusFailed,
				map[string]interface{}{
					"error_message": DeadlineExceededMessage,
					"completed_at":  now,
				})
			if err != nil {
				if errors.Is(err, ErrInvalidTransition) {
					continue
				}
				return stats, err
			}
			s.log.Warn("Failed stale task", zap.Uint("task_id", task.ID))
			stats.Failed++
		}
	}

	// A task is requeued only once its last dispatch is older than
	// RequeueAfter, so a backlog still waiting in the queue is not duplicated.
	if s.cfg.RequeueAfter > 0 {
		pending, err := s.tasks.ListPendingDispatchedBefore(ctx, now.Add(-s.cfg.RequeueAfter))
		if err != nil {
			return stats, err
		}
		for _, task := range pending {
			if err := s.queue.Enqueue(ctx, task.ID); err != nil {
				if errors.Is(err, queue.ErrFull) {
					s.log.Warn("Queue full, deferring requeue", zap.Int("remaining", len(pending)-stats.Requeued))
					break
				}
				return stats, err
			}
			if err := s.tasks.MarkDispatched(ctx, task.ID, now); err != nil {
				return stats, err
			}
			s.log.Info("Requeued pending task", zap.Uint("task_id", task.ID))
			stats.Requeued++
		}
	}

	return stats, nil
}
