package report

import (
	"net/http"
	"time"

	"fitclub/internal/api"
	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{service: service, now: now}
}

// Monthly godoc
// @Summary      Monthly activity report
// @Description  Subscriptions, upgrades, cancellations and booked sessions for one month, with fees.
// @Tags         admin,reports
// @Security     BearerAuth
// @Produce      json
// @Param        month  query     string  false  "Month as YYYY-MM, defaults to the current month"
// @Success      200    {array}   report.Row
// @Failure      400    {object}  api.ErrorResponse
// @Router       /admin/reports/monthly [get]
func (h *Handler) Monthly(c *gin.Context) {
	at := h.now().UTC()
	if month := c.Query("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			api.RespondError(c, apperr.Validation("month must be formatted as YYYY-MM"))
			return
		}
		at = parsed
	}

	rows, err := h.service.Monthly(c.Request.Context(), at)
	if err != nil {
		api.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
