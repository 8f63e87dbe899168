package supplement

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

func supplementID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("supplementID"))
	if err != nil {
		api.RespondError(c, apperr.Validation("Invalid supplement ID"))
		return uuid.Nil, false
	}
	return id, true
}

// @Summary      List supplements
// @Tags         supplements
// @Produce      json
// @Success      200  {array}   supplement.Supplement
// @Router       /supplements [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListSupplements(c.Request.Context())
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Get a supplement
// @Tags         supplements
// @Produce      json
// @Param        supplementID  path      string  true  "Supplement ID"
// @Success      200           {object}  supplement.Supplement
// @Failure      404           {object}  api.ErrorResponse
// @Router       /supplements/{supplementID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := supplementID(c)
	if !ok {
		return
	}
	sup, err := h.service.GetSupplement(c.Request.Context(), id)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

// @Summary      Add a supplement
// @Tags         admin,supplements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      supplement.CreateSupplementRequest  true  "Supplement"
// @Success      201      {object}  supplement.Supplement
// @Failure      400      {object}  api.ErrorResponse
// @Router       /admin/supplements [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateSupplementRequest
	if !api.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.CreateSupplement(c.Request.Context(), req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

// @Summary      Update a supplement
// @Tags         admin,supplements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        supplementID  path      string                              true  "Supplement ID"
// @Param        request       body      supplement.UpdateSupplementRequest  true  "Fields to change"
// @Success      200           {object}  supplement.Supplement
// @Failure      400           {object}  api.ErrorResponse
// @Failure      404           {object}  api.ErrorResponse
// @Router       /admin/supplements/{supplementID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := supplementID(c)
	if !ok {
		return
	}
	var req UpdateSupplementRequest
	if !api.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.UpdateSupplement(c.Request.Context(), id, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

// @Summary      Delete a supplement
// @Tags         admin,supplements
// @Security     BearerAuth
// @Produce      json
// @Param        supplementID  path      string  true  "Supplement ID"
// @Success      200           {object}  api.MessageResponse
// @Failure      404           {object}  api.ErrorResponse
// @Router       /admin/supplements/{supplementID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := supplementID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSupplement(c.Request.Context(), id); err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Supplement deleted successfully."})
}

// PlaceOrder godoc
// @Summary      Order supplements
// @Description  Prices the cart from the catalogue. Unknown items are 404, out of stock items 400.
// @Tags         supplements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      supplement.PlaceOrderRequest  true  "Cart"
// @Success      201      {object}  supplement.OrderResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /orders [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}

	var req PlaceOrderRequest
	if !api.BindJSON(c, &req) {
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), memberID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, OrderResponse{Message: "Order placed successfully!", Order: order})
}

// @Summary      My supplement orders
// @Tags         supplements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   supplement.Order
// @Router       /orders/me [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		api.RespondError(c, errNotAuthenticated)
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context(), memberID)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
