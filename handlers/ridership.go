package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"metroflow-api/models"
	"metroflow-api/services"
)

type RidershipHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewRidershipHandler(db *gorm.DB, cache *services.CacheService) *RidershipHandler {
	return &RidershipHandler{db: db, cache: cache}
}

// GetObservations lists ridership rows, newest first, with optional
// station and line filters.
func (h *RidershipHandler) GetObservations(c *gin.Context) {
	p := ParsePagination(c)
	station := c.Query("station")
	line := c.Query("line")

	cacheKey := fmt.Sprintf("ridership:%s:%s:%d:%s", station, line, p.Limit, p.Before)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.RidershipRecord{}).
		Order("timestamp DESC").
		Limit(p.Limit + 1)

	if p.Before != "" {
		query = query.Where("timestamp < ?", p.Before)
	}
	if station != "" {
		query = query.Where("station_name = ?", station)
	}
	if line != "" {
		query = query.Where("line = ?", line)
	}

	var rows []models.RidershipRecord
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
		nextCursor = rows[len(rows)-1].Timestamp
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 5*time.Second)

	c.JSON(http.StatusOK, resp)
}

// GetStations returns the distinct station names present in the store.
func (h *RidershipHandler) GetStations(c *gin.Context) {
	const cacheKey = "stations:all"

	var cached struct {
		Data []string `json:"data"`
	}
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var stations []string
	if err := h.db.Model(&models.RidershipRecord{}).
		Distinct("station_name").
		Order("station_name").
		Pluck("station_name", &stations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	resp := gin.H{"data": stations}
	go h.cache.Set(context.Background(), cacheKey, resp, 60*time.Second)

	c.JSON(http.StatusOK, resp)
}
