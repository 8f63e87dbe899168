package plan

import (
	"net/http"

	"fitclub/internal/api"
	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List plans
// @Tags         plans
// @Produce      json
// @Success      200  {array}   plan.Plan
// @Router       /plans [get]
func (h *Handler) List(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary      Update a plan
// @Description  Marking a plan popular clears the flag on every other plan.
// @Tags         admin,plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        planID   path      string                  true  "Plan ID"
// @Param        request  body      plan.UpdatePlanRequest  true  "Fields to change"
// @Success      200      {object}  plan.Plan
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/plans/{planID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("planID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid plan ID"))
		return
	}

	var req UpdatePlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
