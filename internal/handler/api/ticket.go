package api

import (
	"errors"
	"net/http"

	reqdto "consular-queue/internal/handler/dto/request"
	resdto "consular-queue/internal/handler/dto/response"
	"consular-queue/internal/pkg/metrics"
	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	commands commands.TicketCommands
	queries  queries.AppointmentQueries
	metrics  *metrics.QueueMetrics
}

func NewTicketHandler(
	cmds commands.TicketCommands,
	qs queries.AppointmentQueries,
	m *metrics.QueueMetrics,
) *TicketHandler {
	return &TicketHandler{
		commands: cmds,
		queries:  qs,
		metrics:  m,
	}
}

// @Summary Create walk-in ticket
// @Description Allocate a kiosk ticket for same-day service
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body reqdto.CreateTicketRequest true "Ticket request"
// @Success 201 {object} resdto.TicketCreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req reqdto.CreateTicketRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.commands.Create(c.Request.Context(), req.CitizenID, req.ProcedureID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrProcedureNotFound):
			h.metrics.ObserveTicket("rejected")
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Procedure not found",
			})
		case errors.Is(err, commands.ErrProcedureNoPrefix):
			h.metrics.ObserveTicket("rejected")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Procedure is not configured for walk-in service",
			})
		case errors.Is(err, commands.ErrEmptyCitizenID):
			h.metrics.ObserveTicket("rejected")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "citizen_id is required",
			})
		case errors.Is(err, commands.ErrDuplicateBooking):
			h.metrics.ObserveTicket("duplicate")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Citizen already has an active appointment for this procedure",
			})
		case errors.Is(err, commands.ErrDuplicateTicket):
			h.metrics.ObserveTicket("duplicate")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Citizen already has a pending ticket for this procedure",
			})
		default:
			h.metrics.ObserveTicket("error")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveTicket("created")
	c.JSON(http.StatusCreated, resdto.FromTicketResult(result))
}

// @Summary Get ticket
// @Description Get walk-in ticket by ID
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetTicket(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary Call ticket
// @Description Call a pending ticket to a module desk
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body reqdto.CallRequest true "Call request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tickets/{id}/call [post]
func (h *TicketHandler) Call(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.CallRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.commands.Call(c.Request.Context(), id, req.Module); err != nil {
		switch {
		case errors.Is(err, commands.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Ticket cannot be called in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveTransition("ticket", "call")
	c.JSON(http.StatusOK, gin.H{"status": "called"})
}
