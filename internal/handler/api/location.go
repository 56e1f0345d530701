package api

import (
	"net/http"
	"strconv"
	"time"

	"cowork-booking/internal/handler/middleware"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/pkg/clock"
	"cowork-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LocationHandler struct {
	locationQueries queries.LocationQueries
	timelineQueries queries.TimelineQueries
	bookingQueries  queries.BookingQueries
	queueQueries    queries.QueueQueries
	clock           clock.Clock
	loc             *time.Location
}

func NewLocationHandler(
	locationQueries queries.LocationQueries,
	timelineQueries queries.TimelineQueries,
	bookingQueries queries.BookingQueries,
	queueQueries queries.QueueQueries,
	clk clock.Clock,
	loc *time.Location,
) *LocationHandler {
	return &LocationHandler{
		locationQueries: locationQueries,
		timelineQueries: timelineQueries,
		bookingQueries:  bookingQueries,
		queueQueries:    queueQueries,
		clock:           clk,
		loc:             loc,
	}
}

// @Summary List locations
// @Tags locations
// @Produce json
// @Success 200 {array} queries.LocationView
// @Router /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

// @Summary Get location
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} queries.LocationView
// @Failure 404 {object} map[string]string
// @Router /locations/{id} [get]
func (h *LocationHandler) GetLocation(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	location, err := h.locationQueries.Get(c.Request.Context(), locationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// @Summary List seats of a location
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {array} queries.SeatView
// @Router /locations/{id}/seats [get]
func (h *LocationHandler) ListSeats(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	seats, err := h.locationQueries.Seats(c.Request.Context(), locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, seats)
}

// @Summary Hourly occupancy timelines of a location's seats
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Param date query string false "Day, YYYY-MM-DD (default today)"
// @Param two_days query bool false "Extend the window to two days"
// @Param seat query string false "Restrict to one seat by name"
// @Success 200 {array} queries.SeatTimeline
// @Router /locations/{id}/timeline [get]
func (h *LocationHandler) GetTimeline(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	day := h.clock.Now()
	if raw := c.Query("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	filter := queries.TimelineFilter{
		LocationID: locationID,
		Date:       day,
		TwoDays:    c.Query("two_days") == "true",
	}
	if seat := c.Query("seat"); seat != "" {
		filter.SeatName = &seat
	}

	timelines, err := h.timelineQueries.SeatTimelines(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, timelines)
}

// @Summary Seats occupied during an interval
// @Tags locations
// @Produce json
// @Param id path string true "Location ID"
// @Param start query string true "Interval start, RFC3339"
// @Param hours query int true "Interval length in hours"
// @Success 200 {array} string
// @Router /locations/{id}/busy [get]
func (h *LocationHandler) GetBusySeats(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start, expected RFC3339"})
		return
	}
	hours, err := strconv.Atoi(c.Query("hours"))
	if err != nil || hours < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hours"})
		return
	}

	names, err := h.bookingQueries.BusySeatNames(c.Request.Context(), locationID, start.In(h.loc), hours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, names)
}

// @Summary List a location's bookings (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Success 200 {array} queries.AdminBookingItem
// @Failure 404 {object} map[string]string
// @Router /admin/locations/{id}/bookings [get]
func (h *LocationHandler) ListLocationBookings(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	items, err := h.bookingQueries.ListByLocationAdmin(c.Request.Context(), locationID, adminID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary List a location's queue for a day (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Location ID"
// @Param date query string false "Day, YYYY-MM-DD (default today)"
// @Success 200 {array} queries.QueueEntryView
// @Router /admin/locations/{id}/queue [get]
func (h *LocationHandler) ListLocationQueue(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	day := h.clock.Now()
	if raw := c.Query("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	entries, err := h.queueQueries.ForLocationDay(c.Request.Context(), locationID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
