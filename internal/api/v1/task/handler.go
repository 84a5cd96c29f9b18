package task

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"adlaan-backend/internal/api/v1/common"
	"adlaan-backend/internal/models"
	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Service is the slice of the task service the handlers use.
type Service interface {
	SubmitGeneration(ctx context.Context, caller services.Caller, req services.GenerationRequest) (*models.Task, error)
	SubmitAnalysis(ctx context.Context, caller services.Caller, req services.AnalysisRequest) (*models.Task, error)
	SubmitClassification(ctx context.Context, caller services.Caller, req services.ClassificationRequest) (*models.Task, error)
	GetTask(ctx context.Context, caller services.Caller, kind models.TaskKind, id uint) (*models.Task, error)
	GetAnyTask(ctx context.Context, caller services.Caller, id uint) (*models.Task, error)
	ListTasks(ctx context.Context, caller services.Caller, kind models.TaskKind) ([]models.Task, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func idempotencyKey(c *gin.Context, body string) string {
	if h := strings.TrimSpace(c.GetHeader(IdempotencyHeader)); h != "" {
		return h
	}
	return strings.TrimSpace(body)
}

// parseKind accepts the kind in any case. An empty value means every kind.
func parseKind(c *gin.Context) (models.TaskKind, bool) {
	raw := strings.TrimSpace(c.Query("kind"))
	if raw == "" {
		return "", true
	}
	kind := models.TaskKind(strings.ToUpper(raw))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid task kind"))
		return "", false
	}
	return kind, true
}

func accepted(c *gin.Context, task *models.Task) {
	c.JSON(http.StatusAccepted, utils.NewAcceptedResponse("Task accepted", task))
}

// GenerateDocument godoc
// @Summary Submit a document generation task
// @Description Render a new document from the template registered for the document type
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body GenerateDocumentRequest true "Generation request"
// @Success 202 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /tasks/generate [post]
func (h *Handler) GenerateDocument(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req GenerateDocumentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	task, err := h.svc.SubmitGeneration(c.Request.Context(), caller, services.GenerationRequest{
		DocumentType:   models.DocumentType(req.DocumentType),
		Title:          req.Title,
		Description:    req.Description,
		Parameters:     req.Parameters,
		CaseID:         req.CaseID,
		ClientID:       req.ClientID,
		IdempotencyKey: idempotencyKey(c, req.IdempotencyKey),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	accepted(c, task)
}

// AnalyzeDocument godoc
// @Summary Submit a document analysis task
// @Description Produce a read-only classification report for one document
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body AnalyzeDocumentRequest true "Analysis request"
// @Success 202 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /tasks/analyze [post]
func (h *Handler) AnalyzeDocument(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req AnalyzeDocumentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	task, err := h.svc.SubmitAnalysis(c.Request.Context(), caller, services.AnalysisRequest{
		DocumentID:     req.DocumentID,
		IdempotencyKey: idempotencyKey(c, req.IdempotencyKey),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	accepted(c, task)
}

// ClassifyDocuments godoc
// @Summary Submit a batch classification task
// @Description Classify explicit documents, a case, or the whole organization
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body ClassifyDocumentsRequest false "Classification request"
// @Success 202 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /tasks/classify [post]
func (h *Handler) ClassifyDocuments(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var req ClassifyDocumentsRequest
	if c.Request.ContentLength != 0 {
		if !utils.BindAndValidate(c, &req) {
			return
		}
	}

	task, err := h.svc.SubmitClassification(c.Request.Context(), caller, services.ClassificationRequest{
		DocumentIDs:      req.DocumentIDs,
		CaseID:           req.CaseID,
		OnlyUnclassified: req.OnlyUnclassified,
		ForceReclassify:  req.ForceReclassify,
		IdempotencyKey:   idempotencyKey(c, req.IdempotencyKey),
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	accepted(c, task)
}

// ListTasks godoc
// @Summary List the caller's tasks
// @Description Newest first, optionally filtered by kind
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param kind query string false "GENERATE_DOCUMENT, ANALYZE_DOCUMENT or CLASSIFY_DOCUMENTS"
// @Success 200 {object} utils.Response{data=TaskListResponse}
// @Failure 400 {object} utils.Response
// @Router /tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	tasks, err := h.svc.ListTasks(c.Request.Context(), caller, kind)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Tasks retrieved successfully", TaskListResponse{
		Total: len(tasks),
		Items: tasks,
	}))
}

// GetTask godoc
// @Summary Get one of the caller's tasks
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Param kind query string false "Restrict the lookup to one kind"
// @Success 200 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /tasks/{id} [get]
func (h *Handler) GetTask(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid task ID"))
		return
	}
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	var (
		task *models.Task
		err  error
	)
	if kind == "" {
		task, err = h.svc.GetAnyTask(c.Request.Context(), caller, id)
	} else {
		task, err = h.svc.GetTask(c.Request.Context(), caller, kind, id)
	}
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Task retrieved successfully", task))
}

// ExportClassificationResults godoc
// @Summary Download classification results as CSV
// @Tags tasks
// @Produce text/csv
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {file} file
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /tasks/{id}/results.csv [get]
func (h *Handler) ExportClassificationResults(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid task ID"))
		return
	}

	task, err := h.svc.GetTask(c.Request.Context(), caller, models.TaskKindClassifyDocuments, id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	data, err := services.ClassificationResultsCSV(task)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="classification-%d.csv"`, task.ID))
	c.Data(http.StatusOK, "text/csv", data)
}
