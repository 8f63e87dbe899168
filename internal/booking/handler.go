package booking

import (
	"context"
	"net/http"

	"fitclub/internal/api"
	"fitclub/internal/apperr"
	"fitclub/internal/auth"
	"fitclub/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Notifier sends the booking confirmation email. Delivery is best effort.
type Notifier interface {
	BookingConfirmed(ctx context.Context, to, name, staffName, slot string) error
}

type Handler struct {
	service  Service
	notifier Notifier
}

// NewHandler builds the booking handler. notifier may be nil.
func NewHandler(service Service, notifier Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

var errNotAuthenticated = apperr.New(apperr.CodeUnauthorized, "Member not authenticated")

// CreateBooking godoc
// @Summary      Book a session
// @Description  Reserves a slot with a trainer or nutritionist. One active booking per member and per staff slot.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking"
// @Success      201      {object}  Booking
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	var req CreateBookingRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), memberID, req.MemberName, req.StaffName, req.Slot)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	if email := auth.GetEmail(c); h.notifier != nil && email != "" {
		if err := h.notifier.BookingConfirmed(c.Request.Context(), email, b.MemberName, b.StaffName, b.Slot); err != nil {
			logger.Warn("booking confirmation not queued", "booking_id", b.ID.String(), "error", err.Error())
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully!", "booking": b})
}

// CancelMyBooking godoc
// @Summary      Cancel my active booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /bookings/active [delete]
func (h *Handler) CancelMyBooking(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), memberID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled successfully."})
}

func (h *Handler) GetMyActiveBooking(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	b, err := h.service.GetMemberBooking(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	bookings, err := h.service.ListMemberBookings(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetSlot godoc
// @Summary      Slot availability
// @Description  Returns the active booking holding a staff slot, or null when the slot is free.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        staff_name  query     string  true  "Staff full name"
// @Param        slot        query     string  true  "Slot token"
// @Success      200         {object}  map[string]interface{}
// @Router       /bookings/slot [get]
func (h *Handler) GetSlot(c *gin.Context) {
	staffName := c.Query("staff_name")
	slot := c.Query("slot")
	if staffName == "" || slot == "" {
		api.RespondError(c, apperr.Validation("staff_name and slot query params are required"))
		return
	}

	b, err := h.service.GetBookingForSlot(c.Request.Context(), staffName, slot)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booked": b != nil, "booking": b})
}

// ListBookings returns every booking. Admin only.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CancelMemberBooking cancels another member's active booking. Admin only.
func (h *Handler) CancelMemberBooking(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("memberID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid member ID"))
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), memberID); err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled successfully."})
}
