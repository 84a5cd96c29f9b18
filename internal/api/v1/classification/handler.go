package classification

import (
	"context"
	"net/http"

	"adlaan-backend/internal/api/v1/common"
	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// SummaryService reports classification progress for an organization.
type SummaryService interface {
	ClassificationSummary(ctx context.Context, caller services.Caller, caseID *uint) (*services.ClassificationSummary, error)
}

type Handler struct {
	svc SummaryService
}

func NewHandler(svc SummaryService) *Handler {
	return &Handler{svc: svc}
}

// Summary godoc
// @Summary Classification summary
// @Description Counts of classified documents per category, for the organization or one case
// @Tags classification
// @Produce json
// @Security ApiKeyAuth
// @Param case_id query int false "Case ID"
// @Success 200 {object} utils.Response{data=services.ClassificationSummary}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /classification/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	caseID, ok := common.OptionalID(c, "case_id")
	if !ok {
		return
	}

	summary, err := h.svc.ClassificationSummary(c.Request.Context(), caller, caseID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Summary retrieved successfully", summary))
}
