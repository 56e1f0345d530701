package api

import (
	"errors"
	"net/http"
	"time"

	"cowork-booking/internal/domain/booking"
	reqdto "cowork-booking/internal/handler/dto/request"
	"cowork-booking/internal/handler/middleware"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/usecase/commands"
	"cowork-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueueHandler struct {
	queueCommands commands.QueueCommands
	queueQueries  queries.QueueQueries
	clock         clock.Clock
	loc           *time.Location
}

func NewQueueHandler(queueCommands commands.QueueCommands, queueQueries queries.QueueQueries, clk clock.Clock, loc *time.Location) *QueueHandler {
	return &QueueHandler{
		queueCommands: queueCommands,
		queueQueries:  queueQueries,
		clock:         clk,
		loc:           loc,
	}
}

// @Summary Join the waiting queue of a location
// @Description Books a free seat on the spot when one is open for the window; otherwise queues the request
// @Tags queue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.JoinQueueRequest true "Queue request"
// @Success 201 {object} commands.JoinQueueResult
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /queue [post]
func (h *QueueHandler) JoinQueue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.queueCommands.Join(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLocationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		case errors.Is(err, commands.ErrQueueEntryExists):
			c.JSON(http.StatusConflict, gin.H{"error": "You already queued for this day"})
		case errors.Is(err, commands.ErrQueueDateElapsed):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Queue date already passed"})
		case errors.Is(err, booking.ErrOutsideOpenHours):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Time slot outside location open hours"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary Leave the waiting queue
// @Tags queue
// @Produce json
// @Security BearerAuth
// @Param id path string true "Queue entry ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /queue/{id} [delete]
func (h *QueueHandler) LeaveQueue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid queue entry ID"})
		return
	}

	if err := h.queueCommands.Leave(c.Request.Context(), userID, entryID); err != nil {
		if errors.Is(err, commands.ErrQueueEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Queue entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List own queue entries for a day
// @Tags queue
// @Produce json
// @Security BearerAuth
// @Param date query string false "Day, YYYY-MM-DD (default today)"
// @Success 200 {array} queries.QueueEntryView
// @Router /queue [get]
func (h *QueueHandler) GetMyQueue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	day, err := h.dayParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	entries, err := h.queueQueries.ForUserDay(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *QueueHandler) dayParam(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return h.clock.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, h.loc)
}
