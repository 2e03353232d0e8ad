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

// ServiceHandler is the shared closing endpoint: one finish call for
// either lifecycle, so desk software never branches on kind.
type ServiceHandler struct {
	appointments commands.AppointmentCommands
	tickets      commands.TicketCommands
	metrics      *metrics.QueueMetrics
}

func NewServiceHandler(
	appointments commands.AppointmentCommands,
	tickets commands.TicketCommands,
	m *metrics.QueueMetrics,
) *ServiceHandler {
	return &ServiceHandler{
		appointments: appointments,
		tickets:      tickets,
		metrics:      m,
	}
}

// @Summary Finish service
// @Description Record the outcome of an appointment or ticket interaction
// @Tags service
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FinishServiceRequest true "Finish request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /service/finish [post]
func (h *ServiceHandler) Finish(c *gin.Context) {
	agentID, ok := middleware.GetAgentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.FinishServiceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.FinishParams{
		ID:      req.ID,
		Outcome: req.Outcome,
		Comment: req.Comment,
		AgentID: agentID,
	}

	var err error
	if req.Kind == "ticket" {
		err = h.tickets.Finish(c.Request.Context(), params)
	} else {
		err = h.appointments.Finish(c.Request.Context(), params)
	}
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errors.Is(err, commands.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, commands.ErrInvalidOutcome):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing or unknown outcome",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Service is already closed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveTransition(req.Kind, "finish")
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}
