package task_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"adlaan-backend/internal/api/v1/task"
	"adlaan-backend/internal/middleware"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCaller = services.Caller{UserID: 7, OrganizationID: 3}

type fakeService struct {
	err error

	generation     *services.GenerationRequest
	analysis       *services.AnalysisRequest
	classification *services.ClassificationRequest
	listKind       *models.TaskKind
	getKind        *models.TaskKind
	anyGet         bool
	caller         services.Caller
}

func (f *fakeService) task(kind models.TaskKind) *models.Task {
	return &models.Task{ID: 42, Kind: kind, Status: models.TaskStatusPending, OwnerID: f.caller.UserID}
}

func (f *fakeService) SubmitGeneration(_ context.Context, caller services.Caller, req services.GenerationRequest) (*models.Task, error) {
	f.caller, f.generation = caller, &req
	if f.err != nil {
		return nil, f.err
	}
	return f.task(models.TaskKindGenerateDocument), nil
}

func (f *fakeService) SubmitAnalysis(_ context.Context, caller services.Caller, req services.AnalysisRequest) (*models.Task, error) {
	f.caller, f.analysis = caller, &req
	if f.err != nil {
		return nil, f.err
	}
	return f.task(models.TaskKindAnalyzeDocument), nil
}

func (f *fakeService) SubmitClassification(_ context.Context, caller services.Caller, req services.ClassificationRequest) (*models.Task, error) {
	f.caller, f.classification = caller, &req
	if f.err != nil {
		return nil, f.err
	}
	return f.task(models.TaskKindClassifyDocuments), nil
}

func (f *fakeService) GetTask(_ context.Context, caller services.Caller, kind models.TaskKind, id uint) (*models.Task, error) {
	f.caller, f.getKind = caller, &kind
	if f.err != nil {
		return nil, f.err
	}
	t := f.task(kind)
	t.ID = id
	return t, nil
}

func (f *fakeService) GetAnyTask(_ context.Context, caller services.Caller, id uint) (*models.Task, error) {
	f.caller, f.anyGet = caller, true
	if f.err != nil {
		return nil, f.err
	}
	t := f.task(models.TaskKindAnalyzeDocument)
	t.ID = id
	return t, nil
}

func (f *fakeService) ListTasks(_ context.Context, caller services.Caller, kind models.TaskKind) ([]models.Task, error) {
	f.caller, f.listKind = caller, &kind
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func newRouter(svc task.Service, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1")
	if authenticated {
		group.Use(func(c *gin.Context) {
			c.Set(middleware.CallerKey, testCaller)
			c.Next()
		})
	}
	task.RegisterRoutes(group, task.NewHandler(svc))
	return r
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestGenerateDocumentAccepted(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc, true)

	w, env := do(t, r, http.MethodPost, "/api/v1/tasks/generate", map[string]interface{}{
		"document_type":   "NDA",
		"title":           "Mutual NDA",
		"parameters":      map[string]interface{}{"party_a": "Acme"},
		"case_id":         5,
		"idempotency_key": "from-body",
	}, map[string]string{task.IdempotencyHeader: "from-header"})

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, http.StatusAccepted, env.Status)
	require.NotNil(t, svc.generation)
	assert.Equal(t, testCaller, svc.caller)
	assert.Equal(t, models.DocumentType("NDA"), svc.generation.DocumentType)
	assert.Equal(t, "Mutual NDA", svc.generation.Title)
	assert.Equal(t, "Acme", svc.generation.Parameters["party_a"])
	require.NotNil(t, svc.generation.CaseID)
	assert.Equal(t, uint(5), *svc.generation.CaseID)
	assert.Equal(t, "from-header", svc.generation.IdempotencyKey)

	var got models.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, uint(42), got.ID)
	assert.Equal(t, models.TaskStatusPending, got.Status)
}

func TestGenerateDocumentValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown document type", map[string]interface{}{"document_type": "PRENUP", "title": "x"}},
		{"missing title", map[string]interface{}{"document_type": "NDA"}},
		{"missing document type", map[string]interface{}{"title": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			w, _ := do(t, newRouter(svc, true), http.MethodPost, "/api/v1/tasks/generate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.generation)
		})
	}
}

func TestAnalyzeDocumentUsesBodyIdempotencyKey(t *testing.T) {
	svc := &fakeService{}
	w, _ := do(t, newRouter(svc, true), http.MethodPost, "/api/v1/tasks/analyze",
		map[string]interface{}{"document_id": 9, "idempotency_key": " retry-1 "}, nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, svc.analysis)
	assert.Equal(t, uint(9), svc.analysis.DocumentID)
	assert.Equal(t, "retry-1", svc.analysis.IdempotencyKey)
}

func TestClassifyDocumentsEmptyBody(t *testing.T) {
	svc := &fakeService{}
	w, _ := do(t, newRouter(svc, true), http.MethodPost, "/api/v1/tasks/classify", nil, nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, svc.classification)
	assert.Empty(t, svc.classification.DocumentIDs)
	assert.Nil(t, svc.classification.CaseID)
	assert.False(t, svc.classification.OnlyUnclassified)
}

func TestClassifyDocumentsFlags(t *testing.T) {
	svc := &fakeService{}
	w, _ := do(t, newRouter(svc, true), http.MethodPost, "/api/v1/tasks/classify", map[string]interface{}{
		"document_ids":      []uint{3, 1},
		"only_unclassified": true,
		"force_reclassify":  true,
	}, nil)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, svc.classification)
	assert.Equal(t, []uint{3, 1}, svc.classification.DocumentIDs)
	assert.True(t, svc.classification.OnlyUnclassified)
	assert.True(t, svc.classification.ForceReclassify)
}

func TestSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"no targets", services.ErrNoTargets, http.StatusNotFound},
		{"invalid request", services.ErrInvalidRequest, http.StatusBadRequest},
		{"invalid document type", services.ErrInvalidDocumentType, http.StatusBadRequest},
		{"idempotency conflict", services.ErrIdempotencyConflict, http.StatusConflict},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			w, env := do(t, newRouter(svc, true), http.MethodPost, "/api/v1/tasks/classify",
				map[string]interface{}{"document_ids": []uint{1}}, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want, env.Status)
			assert.Equal(t, "null", string(env.Data))
		})
	}
}

func TestListTasks(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc, true)

	w, env := do(t, r, http.MethodGet, "/api/v1/tasks?kind=classify_documents", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listKind)
	assert.Equal(t, models.TaskKindClassifyDocuments, *svc.listKind)

	var list task.TaskListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Items)

	w, _ = do(t, r, http.MethodGet, "/api/v1/tasks", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TaskKind(""), *svc.listKind)

	w, _ = do(t, r, http.MethodGet, "/api/v1/tasks?kind=PRINT", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTask(t *testing.T) {
	svc := &fakeService{}
	r := newRouter(svc, true)

	w, _ := do(t, r, http.MethodGet, "/api/v1/tasks/12", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.anyGet)
	assert.Nil(t, svc.getKind)

	w, env := do(t, r, http.MethodGet, "/api/v1/tasks/12?kind=GENERATE_DOCUMENT", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.getKind)
	assert.Equal(t, models.TaskKindGenerateDocument, *svc.getKind)
	var got models.Task
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, uint(12), got.ID)

	w, _ = do(t, r, http.MethodGet, "/api/v1/tasks/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = services.ErrNotFound
	w, _ = do(t, r, http.MethodGet, "/api/v1/tasks/13", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlersRequireCaller(t *testing.T) {
	svc := &fakeService{}
	w, _ := do(t, newRouter(svc, false), http.MethodGet, "/api/v1/tasks", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, svc.listKind)
}
