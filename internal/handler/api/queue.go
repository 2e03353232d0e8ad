package api

import (
	"errors"
	"net/http"

	resdto "consular-queue/internal/handler/dto/response"
	"consular-queue/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	queue queries.QueueQueries
}

func NewQueueHandler(queue queries.QueueQueries) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// @Summary List queue
// @Description Unified service queue: eligible appointments first, then pending tickets
// @Tags queue
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.QueueEntryResponse
// @Router /queue [get]
func (h *QueueHandler) List(c *gin.Context) {
	entries, err := h.queue.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromQueueEntries(entries))
}

// @Summary Next in queue
// @Description Peek the next callable entry
// @Tags queue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.QueueEntryResponse
// @Failure 404 {object} map[string]string
// @Router /queue/next [get]
func (h *QueueHandler) Next(c *gin.Context) {
	entry, err := h.queue.Next(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrQueueEmpty):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Queue is empty",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromQueueEntry(*entry))
}
