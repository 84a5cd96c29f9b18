package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"adlaan-backend/internal/database"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/queue"
	"adlaan-backend/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const contractBody = `This Agreement is entered into by and between the parties named below.

1. Services. The Provider hereby agrees to perform the services described in Section 2.
2. Term. This Agreement remains in effect for one year.

Signature: ______________`

const leaseBody = `This lease agreement is made between the Landlord and the Tenant.

The Tenant shall pay monthly rent of $1,200 beginning 01/01/2024.

Tenant Signature: ______________`

const affidavitBody = `I, Jane Roe, being duly sworn, depose and say that the facts stated herein are true under penalty of perjury.

Signature: ______________

Subscribed and sworn to before me on March 15, 2024.
Notary Public`

type fixture struct {
	db     *gorm.DB
	svc    *TaskService
	queue  *queue.MemoryQueue
	tasks  *repository.TaskRepository
	docs   *repository.DocumentRepository
	dir    *repository.DirectoryRepository
	org    models.Organization
	user   models.User
	caller Caller
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection serializes workers and assertions on the shared in-memory db.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newFixture(t *testing.T, configure ...func(*TaskServiceOptions)) *fixture {
	db := setupTestDB(t)
	f := &fixture{
		db:    db,
		queue: queue.NewMemoryQueue(256),
		tasks: repository.NewTaskRepository(db),
		docs:  repository.NewDocumentRepository(db),
		dir:   repository.NewDirectoryRepository(db),
	}

	ctx := context.Background()
	f.org = models.Organization{Name: "Roe & Partners"}
	require.NoError(t, f.dir.CreateOrganization(ctx, &f.org))
	f.user = models.User{Username: "counsel@roe.test", Password: "x", Role: "user", OrganizationID: f.org.ID}
	require.NoError(t, f.dir.CreateUser(ctx, &f.user))
	f.caller = Caller{UserID: f.user.ID, OrganizationID: f.org.ID}

	opts := TaskServiceOptions{
		Tasks:     f.tasks,
		Documents: f.docs,
		Directory: f.dir,
		Queue:     f.queue,
	}
	for _, c := range configure {
		c(&opts)
	}
	f.svc = NewTaskService(opts)
	return f
}

func (f *fixture) addDocument(t *testing.T, title, content string, mutate ...func(*models.Document)) models.Document {
	doc := models.Document{
		OrganizationID: f.org.ID,
		OwnerID:        f.user.ID,
		Title:          title,
		Content:        content,
		DocumentType:   models.DocumentTypeOther,
	}
	for _, m := range mutate {
		m(&doc)
	}
	require.NoError(t, f.docs.Create(context.Background(), &doc))
	return doc
}

// drain processes every queued task on the calling goroutine.
func (f *fixture) drain(t *testing.T) {
	ctx := context.Background()
	for f.queue.Len() > 0 {
		id, err := f.queue.Dequeue(ctx, time.Millisecond)
		require.NoError(t, err)
		require.NoError(t, f.svc.Process(ctx, id))
	}
}

func (f *fixture) reload(t *testing.T, id uint) *models.Task {
	task, err := f.tasks.Get(context.Background(), id)
	require.NoError(t, err)
	return task
}

func (f *fixture) document(t *testing.T, id uint) *models.Document {
	doc, err := f.docs.Get(context.Background(), f.org.ID, id)
	require.NoError(t, err)
	return doc
}

func (f *fixture) countTasks(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Task{}).Count(&n).Error)
	return n
}

type batchOutput struct {
	Total     int          `json:"total"`
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Truncated bool         `json:"truncated"`
	Results   []ItemResult `json:"results"`
}

func decodeOutput(t *testing.T, task *models.Task, v interface{}) {
	require.NotEmpty(t, task.Output, "task has no output")
	require.NoError(t, json.Unmarshal(task.Output, v))
}
