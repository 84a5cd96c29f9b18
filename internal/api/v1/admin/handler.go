package admin

import (
	"context"
	"errors"
	"net/http"

	"adlaan-backend/internal/api/v1/common"
	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Sweeper recovers stuck tasks on demand.
type Sweeper interface {
	Sweep(ctx context.Context) (services.SweepStats, error)
}

type Handler struct {
	sweeper Sweeper
}

func NewHandler(sweeper Sweeper) *Handler {
	return &Handler{sweeper: sweeper}
}

// SweepTasks godoc
// @Summary Run the stale task sweeper
// @Description Fail tasks stuck in PROCESSING past the deadline and re-enqueue old PENDING tasks
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=services.SweepStats}
// @Failure 403 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/tasks/sweep [post]
func (h *Handler) SweepTasks(c *gin.Context) {
	stats, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Sweep completed", stats))
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

type UserResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	OrganizationID uint   `json:"organization_id"`
}

// CreateUser godoc
// @Summary Create a user in the admin's organization
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body CreateUserInput true "User"
// @Success 201 {object} utils.Response{data=UserResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	caller, ok := common.MustCaller(c)
	if !ok {
		return
	}
	var input CreateUserInput
	if !utils.BindAndValidate(c, &input) {
		return
	}

	u, err := services.RegisterUser(caller.OrganizationID, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
			return
		}
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "User created successfully", UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}))
}
