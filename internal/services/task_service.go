package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"adlaan-backend/internal/classification"
	"adlaan-backend/internal/generation"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/queue"
	"adlaan-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TaskServiceOptions wires a TaskService. Engine, Scorer, Queue, Logger and
// Clock fall back to defaults when nil.
type TaskServiceOptions struct {
	Tasks     TaskStore
	Documents DocumentStore
	Directory Directory
	Queue     queue.Queue
	Engine    *generation.Engine
	Scorer    *classification.Scorer
	Logger    *zap.Logger
	Clock     func() time.Time
}

// TaskService owns the task lifecycle: submission, dispatch, background
// processing and owner-scoped queries.
type TaskService struct {
	tasks  TaskStore
	docs   DocumentStore
	dir    Directory
	queue  queue.Queue
	engine *generation.Engine
	scorer *classification.Scorer
	log    *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	executors map[models.TaskKind]TaskExecutor
	hooks     []AfterExecutionHook
}

func NewTaskService(opts TaskServiceOptions) *TaskService {
	s := &TaskService{
		tasks:  opts.Tasks,
		docs:   opts.Documents,
		dir:    opts.Directory,
		queue:  opts.Queue,
		engine: opts.Engine,
		scorer: opts.Scorer,
		log:    opts.Logger,
		now:    opts.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Named("tasks")
	}
	if s.queue == nil {
		s.queue = queue.NewMemoryQueue(0)
	}
	if s.engine == nil {
		s.engine = generation.NewEngine(generation.DefaultRegistry()).WithClock(s.now)
	}
	if s.scorer == nil {
		s.scorer = classification.NewScorer()
	}

	s.executors = map[models.TaskKind]TaskExecutor{
		models.TaskKindGenerateDocument:  &GenerateExecutor{docs: s.docs, engine: s.engine},
		models.TaskKindAnalyzeDocument:   &AnalyzeExecutor{docs: s.docs, scorer: s.scorer},
		models.TaskKindClassifyDocuments: &ClassifyExecutor{docs: s.docs, scorer: s.scorer, now: s.now, log: s.log},
	}
	return s
}

// SubmitGeneration records a GENERATE_DOCUMENT task and dispatches it.
func (s *TaskService) SubmitGeneration(ctx context.Context, caller Caller, req GenerationRequest) (*models.Task, error) {
	if !req.DocumentType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentType, req.DocumentType)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if existing, err := s.findIdempotent(ctx, caller, models.TaskKindGenerateDocument, req.IdempotencyKey); err != nil || existing != nil {
		return existing, err
	}

	org, err := s.resolveOwner(ctx, caller)
	if err != nil {
		return nil, err
	}

	meta := generationMetadata{
		DocumentType:     req.DocumentType,
		Title:            req.Title,
		Description:      req.Description,
		Parameters:       req.Parameters,
		CaseID:           req.CaseID,
		ClientID:         req.ClientID,
		OrganizationName: org.Name,
	}
	if req.CaseID != nil {
		c, err := s.dir.GetCase(ctx, caller.OrganizationID, *req.CaseID)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", *req.CaseID, err)
		}
		meta.CaseNumber = c.CaseNumber
		if meta.ClientID == nil {
			meta.ClientID = c.ClientID
		}
	}
	if meta.ClientID != nil {
		client, err := s.dir.GetClient(ctx, caller.OrganizationID, *meta.ClientID)
		if err != nil {
			return nil, fmt.Errorf("client %d: %w", *meta.ClientID, err)
		}
		meta.ClientName = client.Name
	}

	return s.create(ctx, caller, models.TaskKindGenerateDocument, req.IdempotencyKey, req, meta, req.CaseID)
}

// SubmitAnalysis records an ANALYZE_DOCUMENT task for one document.
func (s *TaskService) SubmitAnalysis(ctx context.Context, caller Caller, req AnalysisRequest) (*models.Task, error) {
	if req.DocumentID == 0 {
		return nil, fmt.Errorf("%w: document_id is required", ErrInvalidRequest)
	}
	if existing, err := s.findIdempotent(ctx, caller, models.TaskKindAnalyzeDocument, req.IdempotencyKey); err != nil || existing != nil {
		return existing, err
	}
	if _, err := s.resolveOwner(ctx, caller); err != nil {
		return nil, err
	}

	doc, err := s.docs.Get(ctx, caller.OrganizationID, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("document %d: %w", req.DocumentID, err)
	}

	meta := analysisMetadata{DocumentID: doc.ID}
	return s.create(ctx, caller, models.TaskKindAnalyzeDocument, req.IdempotencyKey, req, meta, doc.CaseID)
}

// SubmitClassification resolves the target documents and records a
// CLASSIFY_DOCUMENTS task over them. An empty target set is ErrNoTargets and
// no task is created.
func (s *TaskService) SubmitClassification(ctx context.Context, caller Caller, req ClassificationRequest) (*models.Task, error) {
	if existing, err := s.findIdempotent(ctx, caller, models.TaskKindClassifyDocuments, req.IdempotencyKey); err != nil || existing != nil {
		return existing, err
	}
	if _, err := s.resolveOwner(ctx, caller); err != nil {
		return nil, err
	}

	ids, err := s.resolveTargets(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoTargets
	}

	meta := classificationMetadata{DocumentIDs: ids, ForceReclassify: req.ForceReclassify}
	return s.create(ctx, caller, models.TaskKindClassifyDocuments, req.IdempotencyKey, req, meta, req.CaseID)
}

func (s *TaskService) resolveTargets(ctx context.Context, caller Caller, req ClassificationRequest) ([]uint, error) {
	only := req.unclassifiedOnly()
	switch {
	case len(req.DocumentIDs) > 0:
		return s.docs.FilterIDs(ctx, caller.OrganizationID, req.DocumentIDs, only)
	case req.CaseID != nil:
		if _, err := s.dir.GetCase(ctx, caller.OrganizationID, *req.CaseID); err != nil {
			return nil, fmt.Errorf("case %d: %w", *req.CaseID, err)
		}
		return s.docs.ListIDsByCase(ctx, caller.OrganizationID, *req.CaseID, only)
	default:
		return s.docs.ListIDsByOrganization(ctx, caller.OrganizationID, only)
	}
}

// resolveOwner checks that the caller exists inside its organization.
func (s *TaskService) resolveOwner(ctx context.Context, caller Caller) (*models.Organization, error) {
	user, err := s.dir.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("owner %d: %w", caller.UserID, err)
	}
	if user.OrganizationID != caller.OrganizationID {
		return nil, fmt.Errorf("owner %d: %w", caller.UserID, ErrNotFound)
	}
	org, err := s.dir.GetOrganization(ctx, caller.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("organization %d: %w", caller.OrganizationID, err)
	}
	return org, nil
}

// findIdempotent returns the caller's earlier task submitted with key, or nil
// when there is none.
func (s *TaskService) findIdempotent(ctx context.Context, caller Caller, kind models.TaskKind, key string) (*models.Task, error) {
	if key == "" {
		return nil, nil
	}
	existing, err := s.tasks.FindByIdempotencyKey(ctx, caller.UserID, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if existing.Kind != kind {
		return nil, ErrIdempotencyConflict
	}
	s.log.Info("Duplicate submission, returning existing task",
		zap.Uint("task_id", existing.ID), zap.String("idempotency_key", key))
	return existing, nil
}

func (s *TaskService) create(ctx context.Context, caller Caller, kind models.TaskKind, key string, input, metadata interface{}, caseID *uint) (*models.Task, error) {
	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Kind:           kind,
		Status:         models.TaskStatusPending,
		Input:          datatypes.JSON(inputJSON),
		Metadata:       datatypes.JSON(metaJSON),
		OwnerID:        caller.UserID,
		OrganizationID: caller.OrganizationID,
		CaseID:         caseID,
	}
	dispatchedAt := s.now()
	task.DispatchedAt = &dispatchedAt
	if key != "" {
		task.IdempotencyKey = &key
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		// A concurrent request with the same key may have won the insert.
		if key != "" {
			if existing, findErr := s.findIdempotent(ctx, caller, kind, key); findErr != nil || existing != nil {
				return existing, findErr
			}
		}
		return nil, err
	}

	s.log.Info("Task created",
		zap.Uint("task_id", task.ID),
		zap.String("kind", string(kind)),
		zap.Uint("owner_id", caller.UserID))
	s.dispatch(ctx, task.ID)
	return task, nil
}

// dispatch hands the task to the workers. A failure leaves the task PENDING;
// the sweeper picks it up again.
func (s *TaskService) dispatch(ctx context.Context, taskID uint) {
	if err := s.queue.Enqueue(ctx, taskID); err != nil {
		s.log.Error("Failed to dispatch task", zap.Uint("task_id", taskID), zap.Error(err))
	}
}

// GetTask returns one of the caller's tasks of the given kind.
func (s *TaskService) GetTask(ctx context.Context, caller Caller, kind models.TaskKind, id uint) (*models.Task, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.tasks.GetForOwner(ctx, caller.UserID, id, kind)
}

// GetAnyTask returns one of the caller's tasks whatever its kind.
func (s *TaskService) GetAnyTask(ctx context.Context, caller Caller, id uint) (*models.Task, error) {
	return s.tasks.GetForOwner(ctx, caller.UserID, id, "")
}

// ListTasks returns the caller's tasks newest first. An empty kind lists
// every kind.
func (s *TaskService) ListTasks(ctx context.Context, caller Caller, kind models.TaskKind) ([]models.Task, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.tasks.ListForOwner(ctx, caller.UserID, kind)
}

// Process runs the background step for one task. A task that is no longer
// PENDING was picked up elsewhere and is skipped. Execution failures are
// recorded on the task, not returned.
func (s *TaskService) Process(ctx context.Context, taskID uint) error {
	log := s.log.With(zap.Uint("task_id", taskID))

	err := s.tasks.Transition(ctx, taskID, models.TaskStatusPending, models.TaskStatusProcessing,
		map[string]interface{}{"started_at": s.now()})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			log.Debug("Task already picked up, skipping")
			return nil
		}
		return err
	}
	log.Info("Processing task")

	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return s.fail(ctx, log, taskID, err)
	}

	result, err := s.execute(ctx, task)
	if err != nil {
		return s.fail(ctx, log, taskID, err)
	}

	if hookErr := s.runAfterExecutionHooks(ctx, task, result); hookErr != nil {
		log.Warn("After-execution hook failed", zap.Error(hookErr))
	}

	return s.complete(ctx, log, task, result)
}

func (s *TaskService) execute(ctx context.Context, task *models.Task) (result map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	ex := s.executor(task.Kind)
	if ex == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, task.Kind)
	}
	return ex.Execute(ctx, task)
}

func (s *TaskService) complete(ctx context.Context, log *zap.Logger, task *models.Task, result map[string]interface{}) error {
	output, err := json.Marshal(result)
	if err != nil {
		return s.fail(ctx, log, task.ID, fmt.Errorf("failed to encode output: %w", err))
	}

	updates := map[string]interface{}{
		"output":       datatypes.JSON(output),
		"completed_at": s.now(),
	}
	if task.DocumentID != nil {
		updates["document_id"] = *task.DocumentID
	}

	err = s.tasks.Transition(ctx, task.ID, models.TaskStatusProcessing, models.TaskStatusCompleted, updates)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			log.Warn("Task finished after it was already closed", zap.Error(err))
			s.discardOutput(ctx, log, task)
			return nil
		}
		return err
	}
	log.Info("Task completed")
	return nil
}

// discardOutput removes the document a generation task created when the task
// was closed by someone else and will never point at it.
func (s *TaskService) discardOutput(ctx context.Context, log *zap.Logger, task *models.Task) {
	if task.Kind != models.TaskKindGenerateDocument || task.DocumentID == nil {
		return
	}
	if err := s.docs.Delete(ctx, *task.DocumentID); err != nil {
		log.Error("Failed to discard generated document", zap.Uint("document_id", *task.DocumentID), zap.Error(err))
		return
	}
	log.Info("Discarded generated document", zap.Uint("document_id", *task.DocumentID))
}

func (s *TaskService) fail(ctx context.Context, log *zap.Logger, taskID uint, cause error) error {
	log.Error("Task failed", zap.Error(cause))
	err := s.tasks.Transition(ctx, taskID, models.TaskStatusProcessing, models.TaskStatusFailed,
		map[string]interface{}{
			"error_message": cause.Error(),
			"completed_at":  s.now(),
		})
	if err != nil && !errors.Is(err, ErrInvalidTransition) {
		return err
	}
	return nil
}
