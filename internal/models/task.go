package models

import (
	"time"

	"gorm.io/datatypes"
)

// TaskKind selects the engine that processes a task and the shape of its output.
type TaskKind string

const (
	TaskKindGenerateDocument  TaskKind = "GENERATE_DOCUMENT"
	TaskKindAnalyzeDocument   TaskKind = "ANALYZE_DOCUMENT"
	TaskKindClassifyDocuments TaskKind = "CLASSIFY_DOCUMENTS"
)

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindGenerateDocument, TaskKindAnalyzeDocument, TaskKindClassifyDocuments:
		return true
	}
	return false
}

// TaskStatus defines the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// IsTerminal returns true if no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo encodes PENDING -> PROCESSING -> {COMPLETED, FAILED}.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	}
	return false
}

// Task represents a unit of asynchronous document work.
type Task struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Kind           TaskKind       `gorm:"type:varchar(32);index;not null" json:"kind"`
	Status         TaskStatus     `gorm:"type:varchar(16);index;not null" json:"status"`
	Input          datatypes.JSON `json:"input" swaggertype:"object"`
	Metadata       datatypes.JSON `json:"metadata" swaggertype:"object"`
	Output         datatypes.JSON `json:"output,omitempty" swaggertype:"object"`
	ErrorMessage   string         `gorm:"type:text" json:"error_message,omitempty"`
	OwnerID        uint           `gorm:"index;not null;uniqueIndex:idx_task_owner_idempotency" json:"owner_id"`
	OrganizationID uint           `gorm:"index;not null" json:"organization_id"`
	CaseID         *uint          `gorm:"index" json:"case_id,omitempty"`
	DocumentID     *uint          `json:"document_id,omitempty"`
	IdempotencyKey *string        `gorm:"type:varchar(128);uniqueIndex:idx_task_owner_idempotency" json:"idempotency_key,omitempty"`
	DispatchedAt   *time.Time     `gorm:"index" json:"dispatched_at,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// TableName overrides the table name
func (Task) TableName() string {
	return "tasks"
}
