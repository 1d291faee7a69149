package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metroflow-api/services"
)

type NetworkHandler struct {
	network *services.NetworkService
}

func NewNetworkHandler(network *services.NetworkService) *NetworkHandler {
	return &NetworkHandler{network: network}
}

func (h *NetworkHandler) GetLineStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.network.LineStatuses()})
}

func (h *NetworkHandler) GetStationArrivals(c *gin.Context) {
	stationID := c.Param("id")
	if stationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station id is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.network.StationArrivals(stationID)})
}
