package services

import (
	"context"
	"time"

	"adlaan-backend/internal/models"
	"adlaan-backend/internal/repository"
)

// Caller is the authenticated principal. Every read and write is scoped to
// its organization, and tasks to its user.
type Caller struct {
	UserID         uint
	OrganizationID uint
}

// TaskStore persists tasks.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, id uint) (*models.Task, error)
	GetForOwner(ctx context.Context, ownerID, id uint, kind models.TaskKind) (*models.Task, error)
	ListForOwner(ctx context.Context, ownerID uint, kind models.TaskKind) ([]models.Task, error)
	FindByIdempotencyKey(ctx context.Context, ownerID uint, key string) (*models.Task, error)
	Transition(ctx context.Context, id uint, from, to models.TaskStatus, updates map[string]interface{}) error
	ListProcessingStartedBefore(ctx context.Context, t time.Time) ([]models.Task, error)
	ListPendingDispatchedBefore(ctx context.Context, t time.Time) ([]models.Task, error)
	MarkDispatched(ctx context.Context, id uint, at time.Time) error
}

// DocumentStore persists documents.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, orgID, id uint) (*models.Document, error)
	FilterIDs(ctx context.Context, orgID uint, ids []uint, onlyUnclassified bool) ([]uint, error)
	ListIDsByCase(ctx context.Context, orgID, caseID uint, onlyUnclassified bool) ([]uint, error)
	ListIDsByOrganization(ctx context.Context, orgID uint, onlyUnclassified bool) ([]uint, error)
	SaveClassification(ctx context.Context, id uint, c repository.Classification) error
	SetStorageURL(ctx context.Context, id uint, url string) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context, orgID uint, caseID *uint) (*repository.DocumentStats, error)
}

// Directory resolves the owners, cases and clients a request refers to.
type Directory interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetOrganization(ctx context.Context, id uint) (*models.Organization, error)
	GetCase(ctx context.Context, orgID, id uint) (*models.Case, error)
	GetClient(ctx context.Context, orgID, id uint) (*models.Client, error)
}

var (
	_ TaskStore     = (*repository.TaskRepository)(nil)
	_ DocumentStore = (*repository.DocumentRepository)(nil)
	_ Directory     = (*repository.DirectoryRepository)(nil)
)
