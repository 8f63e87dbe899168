package member

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

var errNotAuthenticated = apperr.New(apperr.CodeUnauthorized, "Member not authenticated")

// Register godoc
// @Summary      Register new member
// @Description  Creates a member account and returns access and refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Member registration data"
// @Success      201      {object}  AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Login
// @Description  Authenticates a member or admin by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token payload"
// @Success      200      {object}  AuthResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Current member
// @Description  Returns the authenticated member with their derived current subscription.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Profile
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	var req UpdateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), memberID, req.FullName)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "member": profile})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	var req ChangePasswordRequest
	if !api.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), memberID, req.CurrentPassword, req.NewPassword); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password changed successfully!"})
}

// DeleteMe removes the caller's own account.
func (h *Handler) DeleteMe(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}
	h.deleteMember(c, memberID)
}

// DeleteMember removes any account. Admin only.
func (h *Handler) DeleteMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("memberID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid member ID"))
		return
	}
	h.deleteMember(c, memberID)
}

func (h *Handler) deleteMember(c *gin.Context, memberID uuid.UUID) {
	n, err := h.service.DeleteMember(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User account deleted successfully.", "deleted_bookings": n})
}

// ListMembers godoc
// @Summary      List members
// @Tags         admin,members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Profile
// @Router       /admin/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	list, err := h.service.ListMembers(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AdminContact godoc
// @Summary      Admin contact details
// @Description  Email and phone of the gym admin. Missing values read "Not available".
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  AdminContact
// @Failure      404  {object}  api.ErrorResponse
// @Router       /admin-contact [get]
func (h *Handler) AdminContact(c *gin.Context) {
	contact, err := h.service.AdminContact(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}
