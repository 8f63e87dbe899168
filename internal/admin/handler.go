package admin

import (
	"net/http"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func memberParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("memberID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid member ID"))
		return uuid.Nil, false
	}
	return id, true
}

// CancelSubscription godoc
// @Summary      Cancel a member's subscription
// @Description  Cancels the active subscription, then releases the member's active booking on a best-effort basis.
// @Tags         admin,subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        memberID  path      string  true  "Member ID"
// @Success      200       {object}  admin.CancelResult
// @Failure      404       {object}  api.ErrorResponse
// @Failure      409       {object}  api.ErrorResponse
// @Router       /admin/members/{memberID}/cancel-subscription [post]
func (h *Handler) CancelSubscription(c *gin.Context) {
	actorID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, apperr.New(apperr.CodeUnauthorized, "Admin not authenticated"))
		return
	}
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	result, err := h.service.CancelMemberSubscription(c.Request.Context(), actorID, memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Subscription and any active bookings have been cancelled successfully!",
		"subscription":    result.Subscription,
		"booking_outcome": result.BookingOutcome,
		"booking":         result.Booking,
	})
}

// ListActions returns the admin actions taken on a member, newest first.
func (h *Handler) ListActions(c *gin.Context) {
	memberID, ok := memberParam(c)
	if !ok {
		return
	}

	actions, err := h.service.ListActions(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, apperr.Internal("listing admin actions", err))
		return
	}
	c.JSON(http.StatusOK, actions)
}
