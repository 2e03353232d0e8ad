package api

import (
	"errors"
	"net/http"

	"consular-queue/internal/domain/appointment"
	reqdto "consular-queue/internal/handler/dto/request"
	resdto "consular-queue/internal/handler/dto/response"
	"consular-queue/internal/pkg/metrics"
	"consular-queue/internal/usecase/commands"
	"consular-queue/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	commands commands.AppointmentCommands
	queries  queries.AppointmentQueries
	metrics  *metrics.QueueMetrics
}

func NewAppointmentHandler(
	cmds commands.AppointmentCommands,
	qs queries.AppointmentQueries,
	m *metrics.QueueMetrics,
) *AppointmentHandler {
	return &AppointmentHandler{
		commands: cmds,
		queries:  qs,
		metrics:  m,
	}
}

// @Summary Book appointment
// @Description Book a web appointment for a procedure slot
// @Tags appointments
// @Accept json
// @Produce json
// @Param request body reqdto.BookAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req reqdto.BookAppointmentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.commands.Book(c.Request.Context(), commands.BookAppointmentParams{
		CitizenID:   req.CitizenID,
		ProcedureID: req.ProcedureID,
		Date:        req.Date,
		TimeOfDay:   req.Time,
		Profile: appointment.Profile{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrProcedureNotFound):
			h.metrics.ObserveBooking("rejected")
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Procedure not found",
			})
		case errors.Is(err, commands.ErrProcedureNoPrefix):
			h.metrics.ObserveBooking("rejected")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Procedure is not configured for booking",
			})
		case errors.Is(err, commands.ErrInvalidSchedule):
			h.metrics.ObserveBooking("rejected")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date or time",
			})
		case errors.Is(err, commands.ErrSlotTaken):
			h.metrics.ObserveBooking("slot_taken")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot already taken",
			})
		case errors.Is(err, commands.ErrCitizenBusy):
			h.metrics.ObserveBooking("citizen_busy")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Citizen already has a booking at that time",
			})
		case errors.Is(err, commands.ErrDuplicateBooking):
			h.metrics.ObserveBooking("duplicate")
			c.JSON(http.StatusConflict, gin.H{
				"error": "Citizen already has an open appointment for this procedure",
			})
		default:
			h.metrics.ObserveBooking("error")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveBooking("booked")
	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

// @Summary Get appointment
// @Description Get appointment by ID
// @Tags appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary Check duplicate booking
// @Description Courtesy pre-check: whether the citizen already has an open appointment for the procedure
// @Tags appointments
// @Produce json
// @Param citizen_id query string true "Citizen ID"
// @Param procedure_id query string true "Procedure ID"
// @Success 200 {object} resdto.DuplicateCheckResponse
// @Failure 400 {object} map[string]string
// @Router /appointments/duplicate [get]
func (h *AppointmentHandler) CheckDuplicate(c *gin.Context) {
	citizenID := c.Query("citizen_id")
	procedureID, err := uuid.Parse(c.Query("procedure_id"))
	if citizenID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "citizen_id and procedure_id query parameters are required",
		})
		return
	}

	duplicate, err := h.queries.CheckDuplicate(c.Request.Context(), citizenID, procedureID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.DuplicateCheckResponse{Duplicate: duplicate})
}

// @Summary List day appointments
// @Description List appointments scheduled on a civil date
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param date query string true "Civil date (YYYY-MM-DD)"
// @Success 200 {array} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Router /appointments [get]
func (h *AppointmentHandler) ListDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date query parameter is required",
		})
		return
	}

	views, err := h.queries.ListDay(c.Request.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidDate):
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

	response := make([]*resdto.AppointmentResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromAppointmentView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel appointment
// @Description Citizen self-cancellation of an active appointment
// @Tags appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errors.Is(err, commands.ErrNotCancelable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Appointment can no longer be canceled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Call appointment
// @Description Call an active appointment to a service module
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param request body reqdto.CallRequest true "Call request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id}/call [post]
func (h *AppointmentHandler) Call(c *gin.Context) {
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
		case errors.Is(err, commands.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Appointment cannot be called in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveTransition("appointment", "call")
	c.JSON(http.StatusOK, gin.H{"status": "called"})
}

// @Summary Reopen appointment
// @Description Reopen a completed appointment for correction
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.ReopenResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /appointments/{id}/reopen [post]
func (h *AppointmentHandler) Reopen(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	previous, err := h.commands.Reopen(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Only completed appointments can be reopened",
			})
		case errors.Is(err, commands.ErrDuplicateBooking):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Citizen already has an open appointment for this procedure",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	h.metrics.ObserveTransition("appointment", "reopen")
	c.JSON(http.StatusOK, resdto.ReopenResponse{
		ID:             id,
		PreviousStatus: previous,
		Status:         "active",
	})
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
