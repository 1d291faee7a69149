package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"metroflow-api/models"
	"metroflow-api/services"
)

type UploadHandler struct {
	ingest *services.IngestService
	cache  *services.CacheService
}

func NewUploadHandler(ingest *services.IngestService, cache *services.CacheService) *UploadHandler {
	return &UploadHandler{ingest: ingest, cache: cache}
}

type uploadRequest struct {
	CSVData []models.RidershipRecord `json:"csvData" binding:"required"`
}

type uploadResponse struct {
	Success      bool `json:"success"`
	TotalRows    int  `json:"totalRows"`
	SuccessCount int  `json:"successCount"`
	ErrorCount   int  `json:"errorCount"`
}

// UploadRows ingests pre-parsed rows: {"csvData": [...]}.
func (h *UploadHandler) UploadRows(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CSV data format"})
		return
	}

	h.respond(c, h.ingest.Upload(c.Request.Context(), req.CSVData))
}

// UploadCSV ingests a raw CSV body: parse first, then batch-upload.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	rows, err := services.ParseRidershipCSV(string(body))
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse CSV"})
		return
	}

	h.respond(c, h.ingest.Upload(c.Request.Context(), rows))
}

func (h *UploadHandler) respond(c *gin.Context, result services.UploadResult) {
	go h.cache.Publish(context.Background(), services.LiveChannel, gin.H{
		"type":   "upload_complete",
		"result": result,
	})

	c.JSON(http.StatusOK, uploadResponse{
		Success:      true,
		TotalRows:    result.TotalRows,
		SuccessCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
	})
}
