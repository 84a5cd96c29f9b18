package services

import (
	"context"

	"adlaan-backend/internal/models"
)

// TaskExecutor runs the work of one task kind and returns its output.
type TaskExecutor interface {
	Execute(ctx context.Context, task *models.Task) (map[string]interface{}, error)
}

// AfterExecutionHook runs after a successful execution and before the task
// is marked COMPLETED. It may add keys to result. Hook errors are logged and
// do not fail the task.
type AfterExecutionHook func(ctx context.Context, task *models.Task, result map[string]interface{}) error

// RegisterExecutor replaces the executor for kind.
func (s *TaskService) RegisterExecutor(kind models.TaskKind, ex TaskExecutor) {
	s.mu.Lock()
	s.executors[kind] = ex
	s.mu.Unlock()
}

func (s *TaskService) executor(kind models.TaskKind) TaskExecutor {
	s.mu.RLock()
	ex := s.executors[kind]
	s.mu.RUnlock()
	return ex
}

func (s *TaskService) RegisterAfterExecutionHook(h AfterExecutionHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

func (s *TaskService) runAfterExecutionHooks(ctx context.Context, task *models.Task, result map[string]interface{}) error {
	s.mu.RLock()
	hooks := make([]AfterExecutionHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()
	for _, h := range hooks {
		if err := h(ctx, task, result); err != nil {
			return err
		}
	}
	return nil
}
