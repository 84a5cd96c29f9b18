package repository

import (
	"context"
	"fmt"
	"time"

	"adlaan-backend/internal/models"

	"gorm.io/gorm"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get loads a task by id regardless of owner. Used by the background step.
func (r *TaskRepository) Get(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// GetForOwner loads a task owned by ownerID. An empty kind matches any kind.
func (r *TaskRepository) GetForOwner(ctx context.Context, ownerID, id uint, kind models.TaskKind) (*models.Task, error) {
	q := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var task models.Task
	if err := q.First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// ListForOwner returns the owner's tasks of one kind, newest first.
func (r *TaskRepository) ListForOwner(ctx context.Context, ownerID uint, kind models.TaskKind) ([]models.Task, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var tasks []models.Task
	if err := q.Order("created_at desc").Order("id desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByIdempotencyKey returns the owner's task submitted with key.
func (r *TaskRepository) FindByIdempotencyKey(ctx context.Context, ownerID uint, key string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND idempotency_key = ?", ownerID, key).
		First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// Transition moves a task from one status to the next and applies updates in
// the same statement. The update is conditional on the current status, so a
// task that already moved on is left untouched and ErrInvalidTransition is
// returned.
func (r *TaskRepository) Transition(ctx context.Context, id uint, from, to models.TaskStatus, updates map[string]interface{}) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	fields := map[string]interface{}{"status": to}
	for k, v := range updates {
		fields[k] = v
	}

	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: task %d is not %s", ErrInvalidTransition, id, from)
	}
	return nil
}

// ListProcessingStartedBefore returns PROCESSING tasks that started before t.
func (r *TaskRepository) ListProcessingStartedBefore(ctx context.Context, t time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status = ? AND started_at < ?", models.TaskStatusProcessing, t).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// ListPendingDispatchedBefore returns PENDING tasks last handed to the queue
// before t. Tasks never dispatched count from their creation time.
func (r *TaskRepository) ListPendingDispatchedBefore(ctx context.Context, t time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).
		Where("status = ? AND COALESCE(dispatched_at, created_at) < ?", models.TaskStatusPending, t).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// MarkDispatched records when a PENDING task was last enqueued.
func (r *TaskRepository) MarkDispatched(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND status = ?", id, models.TaskStatusPending).
		Update("dispatched_at", at).Error
}
