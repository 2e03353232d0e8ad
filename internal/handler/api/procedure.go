package api

import (
	"errors"
	"net/http"

	resdto "consular-queue/internal/handler/dto/response"
	"consular-queue/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProcedureHandler struct {
	availability queries.AvailabilityQueries
	catalog      queries.AppointmentQueries
}

func NewProcedureHandler(availability queries.AvailabilityQueries, catalog queries.AppointmentQueries) *ProcedureHandler {
	return &ProcedureHandler{
		availability: availability,
		catalog:      catalog,
	}
}

// @Summary List procedures
// @Description List every bookable procedure
// @Tags procedures
// @Produce json
// @Success 200 {array} resdto.ProcedureResponse
// @Router /procedures [get]
func (h *ProcedureHandler) ListProcedures(c *gin.Context) {
	views, err := h.catalog.ListProcedures(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.ProcedureResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromProcedureView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Day availability
// @Description Free slots for a procedure on a civil date
// @Tags procedures
// @Produce json
// @Param id path string true "Procedure ID"
// @Param date query string true "Civil date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /procedures/{id}/slots [get]
func (h *ProcedureHandler) DaySlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid procedure ID format",
		})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "date query parameter is required",
		})
		return
	}

	availability, err := h.availability.DaySlots(c.Request.Context(), id, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrProcedureNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Procedure not found",
			})
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

	c.JSON(http.StatusOK, resdto.FromDayAvailability(availability))
}
