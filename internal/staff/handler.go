package staff

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

func parseStaffID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("staffID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid staff ID"))
		return uuid.Nil, false
	}
	return id, true
}

// ListActive godoc
// @Summary      List active staff
// @Description  Public directory of bookable trainers and nutritionists.
// @Tags         staff
// @Produce      json
// @Success      200  {array}   staff.PublicStaff
// @Failure      500  {object}  api.ErrorResponse
// @Router       /staff/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	list, err := h.service.ListActiveStaff(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      List all staff
// @Tags         admin,staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   staff.Staff
// @Router       /admin/staff [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListStaff(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Create a staff member
// @Tags         admin,staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      staff.CreateStaffRequest  true  "Staff payload"
// @Success      201      {object}  staff.Staff
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/staff [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// @Summary      Update a staff member
// @Description  Renaming a staff member also renames their bookings.
// @Tags         admin,staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        staffID  path      string                    true  "Staff ID"
// @Param        request  body      staff.UpdateStaffRequest  true  "Fields to change"
// @Success      200      {object}  staff.Staff
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/staff/{staffID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseStaffID(c)
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.service.UpdateStaff(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Delete a staff member
// @Description  Hard-deletes every booking that references the staff member, then the staff member.
// @Tags         admin,staff
// @Produce      json
// @Security     BearerAuth
// @Param        staffID  path      string  true  "Staff ID"
// @Success      200      {object}  staff.DeleteStaffResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/staff/{staffID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseStaffID(c)
	if !ok {
		return
	}

	n, err := h.service.DeleteStaff(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteStaffResponse{Message: "Staff member deleted successfully.", DeletedBookings: n})
}
