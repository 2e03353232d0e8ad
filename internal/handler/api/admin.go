package api

import (
	"errors"
	"net/http"

	reqdto "consular-queue/internal/handler/dto/request"
	"consular-queue/internal/handler/middleware"
	"consular-queue/internal/pkg/metrics"
	"consular-queue/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const defaultCloseReason = "manual_close"

type AdminHandler struct {
	closure commands.ClosureCommands
	metrics *metrics.QueueMetrics
}

func NewAdminHandler(closure commands.ClosureCommands, m *metrics.QueueMetrics) *AdminHandler {
	return &AdminHandler{closure: closure, metrics: m}
}

// @Summary Close day
// @Description Close every open appointment of a civil date as "did not appear"
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CloseDayRequest true "Close day request"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/close-day [post]
func (h *AdminHandler) CloseDay(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CloseDayRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = defaultCloseReason
	}

	closed, err := h.closure.CloseDay(c.Request.Context(), req.Date, reason, agentID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidSchedule):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.AddBulkClosed(closed)
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

// @Summary Reset kiosk counters
// @Description Zero every kiosk sequence partition
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Failure 403 {object} map[string]string
// @Router /admin/reset-counters [post]
func (h *AdminHandler) ResetCounters(c *gin.Context) {
	reset, err := h.closure.ResetKioskCounters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": reset})
}
