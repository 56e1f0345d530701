package api

import (
	"net/http"

	"cowork-booking/internal/infra/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LiveHandler struct {
	hub *ws.Hub
}

func NewLiveHandler(hub *ws.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// @Summary Subscribe to a location's live booking events
// @Description Upgrades to a websocket delivering booking_created/updated/canceled/started events
// @Tags locations
// @Param id path string true "Location ID"
// @Router /locations/{id}/ws [get]
func (h *LiveHandler) Subscribe(c *gin.Context) {
	locationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}
	h.hub.Serve(c, locationID)
}
