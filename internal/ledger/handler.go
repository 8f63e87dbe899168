package ledger

import (
	"net/http"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

var errNotAuthenticated = apperr.New(apperr.CodeUnauthorized, "Member not authenticated")

// Subscribe godoc
// @Summary      Subscribe to a plan
// @Description  Closes the active subscription, if any, and opens a new one for a month.
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SubscribeRequest  true  "Plan"
// @Success      200      {object}  Current
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	var req SubscribeRequest
	if !api.BindJSON(c, &req) {
		return
	}

	cur, err := h.service.Subscribe(c.Request.Context(), memberID, req.Plan)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Successfully subscribed to " + req.Plan + " plan.",
		"subscription": cur,
	})
}

// Cancel godoc
// @Summary      Cancel my subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Current
// @Failure      409  {object}  api.ErrorResponse
// @Router       /subscriptions/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	cur, err := h.service.Cancel(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription cancelled successfully.",
		"subscription": cur,
	})
}

func (h *Handler) GetCurrent(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	cur, err := h.service.Current(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cur)
}

func (h *Handler) GetHistory(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	history, err := h.service.History(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
