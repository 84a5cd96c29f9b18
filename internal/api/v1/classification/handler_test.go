package classification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"adlaan-backend/internal/api/v1/classification"
	"adlaan-backend/internal/middleware"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/repository"
	"adlaan-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummary struct {
	caseID *uint
	called bool
	err    error
}

func (f *fakeSummary) ClassificationSummary(_ context.Context, _ services.Caller, caseID *uint) (*services.ClassificationSummary, error) {
	f.called, f.caseID = true, caseID
	if f.err != nil {
		return nil, f.err
	}
	mean := 0.9
	return &services.ClassificationSummary{
		Total:      3,
		Classified: 2,
		ByCategory: []repository.CategoryCount{
			{DocumentType: models.DocumentTypeContract, Count: 2},
		},
		Unclassified:   1,
		MeanConfidence: &mean,
	}, nil
}

func serve(svc classification.SummaryService, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.CallerKey, services.Caller{UserID: 1, OrganizationID: 1})
	})
	classification.RegisterRoutes(group, classification.NewHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSummary(t *testing.T) {
	svc := &fakeSummary{}
	w := serve(svc, "/api/v1/classification/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.caseID)

	var env struct {
		Data services.ClassificationSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, int64(1), env.Data.Unclassified)
	require.Len(t, env.Data.ByCategory, 1)
	assert.Equal(t, int64(2), env.Data.ByCategory[0].Count)
	require.NotNil(t, env.Data.MeanConfidence)
	assert.InDelta(t, 0.9, *env.Data.MeanConfidence, 1e-9)
}

func TestSummaryCaseScope(t *testing.T) {
	svc := &fakeSummary{}
	w := serve(svc, "/api/v1/classification/summary?case_id=4")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.caseID)
	assert.Equal(t, uint(4), *svc.caseID)

	svc = &fakeSummary{}
	w = serve(svc, "/api/v1/classification/summary?case_id=four")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)

	svc = &fakeSummary{err: services.ErrNotFound}
	w = serve(svc, "/api/v1/classification/summary?case_id=99")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
