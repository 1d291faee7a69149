package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"metroflow-api/models"
)

// ErrStationsRequired: congestion analysis was requested without any
// stations. Rejected before any I/O.
var ErrStationsRequired = errors.New("at least one station is required")

const congestionSystemPrompt = "You are a London Underground congestion analysis expert. " +
	"Always respond with valid JSON only."

// congestionLookback bounds how much history feeds one analysis.
const (
	congestionLookback   = 24 * time.Hour
	congestionFetchLimit = 100
	congestionPromptRows = 20
)

type CongestionHotspot struct {
	Station        string `json:"station"`
	Severity       string `json:"severity"`
	PassengerCount int    `json:"passengerCount"`
}

type CongestionForecast struct {
	Hour          int      `json:"hour"`
	Stations      []string `json:"stations"`
	ExpectedLevel string   `json:"expectedLevel"`
}

type AlternativeRoute struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Alternative string `json:"alternative"`
}

type CongestionAnalysis struct {
	Hotspots          []CongestionHotspot  `json:"hotspots"`
	Predictions       []CongestionForecast `json:"predictions"`
	Recommendations   []string             `json:"recommendations"`
	AlternativeRoutes []AlternativeRoute   `json:"alternativeRoutes"`
	OverallStatus     string               `json:"overallStatus"`
}

// CongestionStore reads the recent observations that feed an analysis.
type CongestionStore interface {
	ObservationsForStations(ctx context.Context, stations []string, since time.Time, limit int) ([]models.RidershipRecord, error)
}

func (s *GormPredictionStore) ObservationsForStations(ctx context.Context, stations []string, since time.Time, limit int) ([]models.RidershipRecord, error) {
	var rows []models.RidershipRecord
	err := s.db.WithContext(ctx).
		Where("station_name IN ?", stations).
		Where("timestamp >= ?", since.UTC().Format(time.RFC3339)).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// CongestionService runs a multi-station congestion analysis through the
// hosted model. Results are returned to the caller only, never persisted.
type CongestionService struct {
	store CongestionStore
	ai    ChatClient
	log   zerolog.Logger
	now   func() time.Time
}

func NewCongestionService(store CongestionStore, ai ChatClient, log zerolog.Logger) *CongestionService {
	return &CongestionService{store: store, ai: ai, log: log, now: time.Now}
}

func (s *CongestionService) Analyze(ctx context.Context, stations []string) (*CongestionAnalysis, error) {
	if len(stations) == 0 {
		return nil, ErrStationsRequired
	}

	recent, err := s.store.ObservationsForStations(ctx, stations, s.now().Add(-congestionLookback), congestionFetchLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("congestion history lookup failed")
	}
	if len(recent) > congestionPromptRows {
		recent = recent[:congestionPromptRows]
	}

	completion, err := s.ai.Complete(ctx, CompletionRequest{
		System:      congestionSystemPrompt,
		User:        buildCongestionPrompt(stations, recent),
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}

	var analysis CongestionAnalysis
	if err := json.Unmarshal([]byte(stripFences(completion)), &analysis); err != nil {
		s.log.Error().Err(err).Str("completion", completion).Msg("malformed congestion completion")
		return nil, ErrMalformedResponse
	}

	return &analysis, nil
}

func buildCongestionPrompt(stations []string, recent []models.RidershipRecord) string {
	recentJSON, _ := json.MarshalIndent(recent, "", "  ")

	return fmt.Sprintf(`Analyze congestion patterns for London Underground stations.

Stations: %s
Recent Data Summary:
%s

Provide real-time congestion analysis with:
1. Current congestion hotspots
2. Predicted congestion for next 2 hours
3. Recommended actions for traffic management
4. Alternative routes for passengers

Respond ONLY in valid JSON format:
{
  "hotspots": [{"station": "string", "severity": "string", "passengerCount": number}],
  "predictions": [{"hour": number, "stations": ["string"], "expectedLevel": "string"}],
  "recommendations": ["string"],
  "alternativeRoutes": [{"from": "string", "to": "string", "alternative": "string"}],
  "overallStatus": "string"
}`, strings.Join(stations, ", "), recentJSON)
}
