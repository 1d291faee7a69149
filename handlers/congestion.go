package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"metroflow-api/services"
)

type CongestionHandler struct {
	congestion *services.CongestionService
}

func NewCongestionHandler(congestion *services.CongestionService) *CongestionHandler {
	return &CongestionHandler{congestion: congestion}
}

type congestionRequest struct {
	Stations []string `json:"stations" binding:"required"`
}

func (h *CongestionHandler) Analyze(c *gin.Context) {
	var req congestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := h.congestion.Analyze(c.Request.Context(), req.Stations)
	if err != nil {
		c.JSON(predictionStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"analysis":  analysis,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
