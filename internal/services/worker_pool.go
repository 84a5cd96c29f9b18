package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"adlaan-backend/internal/queue"
	"adlaan-backend/pkg/logger"

	"go.uber.org/zap"
)

// Processor runs the background step of a task.
type Processor interface {
	Process(ctx context.Context, taskID uint) error
}

// WorkerPool pulls task ids from a queue and processes at most size of them
// at a time.
type WorkerPool struct {
	queue       queue.Queue
	processor   Processor
	size        int
	pollTimeout time.Duration
	log         *zap.Logger
	wg          sync.WaitGroup
}

func NewWorkerPool(q queue.Queue, p Processor, size int, log *zap.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = logger.Named("workers")
	}
	return &WorkerPool{
		queue:       q,
		processor:   p,
		size:        size,
		pollTimeout: 2 * time.Second,
		log:         log,
	}
}

// Start launches the workers. They stop taking new tasks once ctx is done;
// a task already being processed runs to completion.
func (p *WorkerPool) Start(ctx context.Context) {
	p.log.Info("Worker pool started", zap.Int("size", p.size))
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.loop(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

func (p *WorkerPool) loop(ctx context.Context, worker int) {
	defer p.wg.Done()
	log := p.log.With(zap.Int("worker", worker))

	for {
		if ctx.Err() != nil {
			return
		}

		taskID, err := p.queue.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			log.Error("Failed to dequeue task", zap.Error(err))
			// Prevent tight loop on error
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		p.run(context.WithoutCancel(ctx), log, taskID)
	}
}

func (p *WorkerPool) run(ctx context.Context, log *zap.Logger, taskID uint) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Worker recovered from panic", zap.Uint("task_id", taskID), zap.Any("panic", r))
		}
	}()
	if err := p.processor.Process(ctx, taskID); err != nil {
		log.Error("Failed to process task", zap.Uint("task_id", taskID), zap.Error(err))
	}
}
