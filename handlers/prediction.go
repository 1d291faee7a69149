package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"metroflow-api/models"
	"metroflow-api/services"
)

type PredictionHandler struct {
	db         *gorm.DB
	prediction *services.PredictionService
	cache      *services.CacheService
}

func NewPredictionHandler(db *gorm.DB, prediction *services.PredictionService, cache *services.CacheService) *PredictionHandler {
	return &PredictionHandler{db: db, prediction: prediction, cache: cache}
}

// PredictFlow runs one passenger-flow prediction through the hosted model.
func (h *PredictionHandler) PredictFlow(c *gin.Context) {
	var req services.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.prediction.PredictFlow(c.Request.Context(), req)
	if err != nil {
		c.JSON(predictionStatus(err), gin.H{"error": err.Error()})
		return
	}

	go h.cache.Publish(context.Background(), services.LiveChannel, gin.H{
		"type":       "prediction",
		"station":    req.StationName,
		"prediction": result,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "prediction": result})
}

// predictionStatus maps classified service failures onto HTTP statuses.
func predictionStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrStationRequired), errors.Is(err, services.ErrStationsRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrQuotaExhausted):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetPredictions lists persisted audit rows, newest first.
func (h *PredictionHandler) GetPredictions(c *gin.Context) {
	p := ParsePagination(c)
	station := c.Query("station")

	cacheKey := fmt.Sprintf("predictions:%s:%d:%s", station, p.Limit, p.Before)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.Prediction{}).
		Order("prediction_time DESC").
		Limit(p.Limit + 1)

	if p.Before != "" {
		if t, err := time.Parse(time.RFC3339Nano, p.Before); err == nil {
			query = query.Where("prediction_time < ?", t)
		}
	}
	if station != "" {
		query = query.Where("station_name = ?", station)
	}

	var rows []models.Prediction
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].PredictionTime.Format(time.RFC3339Nano)
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
