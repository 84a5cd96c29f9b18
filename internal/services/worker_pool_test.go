package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	mu        sync.Mutex
	seen      []uint
	active    int32
	maxActive int32
	delay     time.Duration
	panicOn   uint
}

func (p *recordingProcessor) Process(ctx context.Context, taskID uint) error {
	n := atomic.AddInt32(&p.active, 1)
	defer atomic.AddInt32(&p.active, -1)
	for {
		m := atomic.LoadInt32(&p.maxActive)
		if n <= m || atomic.CompareAndSwapInt32(&p.maxActive, m, n) {
			break
		}
	}

	time.Sleep(p.delay)
	if taskID == p.panicOn {
		panic("processor exploded")
	}

	p.mu.Lock()
	p.seen = append(p.seen, taskID)
	p.mu.Unlock()
	return nil
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	q := queue.NewMemoryQueue(64)
	proc := &recordingProcessor{delay: 20 * time.Millisecond, panicOn: 5}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for id := uint(1); id <= 12; id++ {
		require.NoError(t, q.Enqueue(ctx, id))
	}

	pool := NewWorkerPool(q, proc, 3, nil)
	pool.pollTimeout = 20 * time.Millisecond
	pool.Start(ctx)

	assert.Eventually(t, func() bool { return proc.count() == 11 }, 5*time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&proc.maxActive), int32(3))
	assert.Equal(t, 0, q.Len())

	cancel()
	stopped := make(chan struct{})
	go func() {
		pool.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker pool did not stop")
	}
}

func TestWorkerPoolProcessesSubmittedTasks(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doc := f.addDocument(t, "Residential Lease", leaseBody)
	task, err := f.svc.SubmitClassification(ctx, f.caller, ClassificationRequest{DocumentIDs: []uint{doc.ID}})
	require.NoError(t, err)

	pool := NewWorkerPool(f.queue, f.svc, 1, nil)
	pool.pollTimeout = 20 * time.Millisecond
	pool.Start(ctx)

	assert.Eventually(t, func() bool {
		got, err := f.tasks.Get(context.Background(), task.ID)
		return err == nil && got.Status == models.TaskStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	pool.Wait()
	assert.Equal(t, models.DocumentTypeLeaseAgreement, f.document(t, doc.ID).DocumentType)
}
