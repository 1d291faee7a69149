package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"metroflow-api/config"
	"metroflow-api/models"
)

const flowSystemPrompt = "You are an expert in London Underground passenger flow prediction. " +
	"Always respond with valid JSON only, no markdown or additional text."

// PredictionRequest is the input to one flow prediction. Hour is a
// pointer so midnight survives the "absent means now" defaulting.
type PredictionRequest struct {
	StationName      string                   `json:"stationName"`
	Hour             *int                     `json:"hour,omitempty"`
	DayOfWeek        string                   `json:"dayOfWeek,omitempty"`
	WeatherCondition string                   `json:"weatherCondition,omitempty"`
	HistoricalData   []models.RidershipRecord `json:"historicalData,omitempty"`
}

// PredictionResult is the validated shape of a model completion.
type PredictionResult struct {
	PassengerCount            int     `json:"passenger_count"`
	EntryCount                int     `json:"entry_count"`
	ExitCount                 int     `json:"exit_count"`
	CongestionLevel           string  `json:"congestion_level"`
	RecommendedTrainFrequency int     `json:"recommended_train_frequency"`
	AnomalyRisk               float64 `json:"anomaly_risk"`
	ConfidenceScore           float64 `json:"confidence_score"`
	Reasoning                 string  `json:"reasoning"`
}

// PredictionStore covers the two database touches a prediction makes:
// reading recent context and writing the audit row.
type PredictionStore interface {
	RecentObservations(ctx context.Context, station string, hour, limit int) ([]models.RidershipRecord, error)
	SaveAudit(ctx context.Context, p *models.Prediction) error
}

type GormPredictionStore struct {
	db *gorm.DB
}

func NewGormPredictionStore(db *gorm.DB) *GormPredictionStore {
	return &GormPredictionStore{db: db}
}

func (s *GormPredictionStore) RecentObservations(ctx context.Context, station string, hour, limit int) ([]models.RidershipRecord, error) {
	var rows []models.RidershipRecord
	err := s.db.WithContext(ctx).
		Where("station_name = ?", station).
		Where("hour = ?", hour).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *GormPredictionStore) SaveAudit(ctx context.Context, p *models.Prediction) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// PredictionService turns a request into a PredictionResult via the
// hosted model: fill defaults, gather history, prompt, parse, audit.
// Single-shot; no retry loop at any stage.
type PredictionService struct {
	store         PredictionStore
	ai            ChatClient
	historyWindow int
	modelVersion  string
	log           zerolog.Logger
	now           func() time.Time
}

func NewPredictionService(store PredictionStore, ai ChatClient, cfg config.PredictionConfig, log zerolog.Logger) *PredictionService {
	window := cfg.HistoryWindow
	if window <= 0 {
		window = 7
	}
	return &PredictionService{
		store:         store,
		ai:            ai,
		historyWindow: window,
		modelVersion:  cfg.ModelVersion,
		log:           log,
		now:           time.Now,
	}
}

func (s *PredictionService) PredictFlow(ctx context.Context, req PredictionRequest) (*PredictionResult, error) {
	station := strings.TrimSpace(req.StationName)
	if station == "" {
		return nil, ErrStationRequired
	}

	now := s.now()
	hour := now.Hour()
	if req.Hour != nil {
		hour = *req.Hour
	}
	day := req.DayOfWeek
	if day == "" {
		day = now.Weekday().String()
	}
	weather := req.WeatherCondition
	if weather == "" {
		weather = "Clear"
	}

	history := req.HistoricalData
	if history == nil {
		fetched, err := s.store.RecentObservations(ctx, station, hour, s.historyWindow)
		if err != nil {
			// A context-poor prompt beats no prediction at all.
			s.log.Warn().Err(err).Str("station", station).Msg("historical lookup failed")
		}
		history = fetched
	}
	if len(history) > s.historyWindow {
		history = history[:s.historyWindow]
	}

	completion, err := s.ai.Complete(ctx, CompletionRequest{
		System: flowSystemPrompt,
		User:   buildFlowPrompt(station, hour, day, weather, history),
	})
	if err != nil {
		predictionsFailed.Inc()
		return nil, err
	}

	result, err := parsePredictionResult(completion)
	if err != nil {
		s.log.Error().Err(err).Str("completion", completion).Msg("malformed prediction completion")
		predictionsFailed.Inc()
		return nil, ErrMalformedResponse
	}

	// Audit write is best-effort: observability must not block the
	// user-facing result.
	features, _ := json.Marshal(map[string]interface{}{
		"hour":             hour,
		"dayOfWeek":        day,
		"weatherCondition": weather,
		"historicalData":   history,
	})
	audit := &models.Prediction{
		ID:              uuid.NewString(),
		StationName:     station,
		PredictionType:  "passenger_flow",
		PredictedValue:  float64(result.PassengerCount),
		ConfidenceScore: result.ConfidenceScore,
		PredictionTime:  now,
		InputFeatures:   features,
		ModelVersion:    s.modelVersion,
	}
	if err := s.store.SaveAudit(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("station", station).Msg("prediction audit write failed")
	}

	predictionsGenerated.Inc()
	return result, nil
}

func buildFlowPrompt(station string, hour int, day, weather string, history []models.RidershipRecord) string {
	historyJSON, _ := json.MarshalIndent(history, "", "  ")

	return fmt.Sprintf(`You are a London Underground passenger flow prediction expert. Analyze the following data and predict passenger flow.

Station: %s
Hour: %d:00
Day of Week: %s
Weather: %s

Historical Data (last %d days same hour):
%s

Based on this data, provide predictions for:
1. Expected passenger count
2. Entry count
3. Exit count
4. Congestion level (Low/Medium/High/Very High)
5. Recommended train frequency (trains per hour)
6. Anomaly risk (0-100%%)

Respond ONLY in valid JSON format:
{
  "passenger_count": number,
  "entry_count": number,
  "exit_count": number,
  "congestion_level": "string",
  "recommended_train_frequency": number,
  "anomaly_risk": number,
  "confidence_score": number (0-100),
  "reasoning": "brief explanation"
}`, station, hour, day, weather, len(history), historyJSON)
}

// stripFences removes markdown code-fence markup that models wrap JSON
// in despite instructions.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func parsePredictionResult(completion string) (*PredictionResult, error) {
	cleaned := stripFences(completion)

	var raw struct {
		PassengerCount            *float64 `json:"passenger_count"`
		EntryCount                *float64 `json:"entry_count"`
		ExitCount                 *float64 `json:"exit_count"`
		CongestionLevel           string   `json:"congestion_level"`
		RecommendedTrainFrequency *float64 `json:"recommended_train_frequency"`
		AnomalyRisk               *float64 `json:"anomaly_risk"`
		ConfidenceScore           *float64 `json:"confidence_score"`
		Reasoning                 string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("decoding completion: %w", err)
	}

	required := map[string]*float64{
		"passenger_count":             raw.PassengerCount,
		"entry_count":                 raw.EntryCount,
		"exit_count":                  raw.ExitCount,
		"recommended_train_frequency": raw.RecommendedTrainFrequency,
		"anomaly_risk":                raw.AnomalyRisk,
		"confidence_score":            raw.ConfidenceScore,
	}
	for name, v := range required {
		if v == nil {
			return nil, fmt.Errorf("completion missing field %q", name)
		}
	}
	if raw.CongestionLevel == "" {
		return nil, fmt.Errorf("completion missing field %q", "congestion_level")
	}

	return &PredictionResult{
		PassengerCount:            int(*raw.PassengerCount),
		EntryCount:                int(*raw.EntryCount),
		ExitCount:                 int(*raw.ExitCount),
		CongestionLevel:           raw.CongestionLevel,
		RecommendedTrainFrequency: int(*raw.RecommendedTrainFrequency),
		AnomalyRisk:               *raw.AnomalyRisk,
		ConfidenceScore:           *raw.ConfidenceScore,
		Reasoning:                 raw.Reasoning,
	}, nil
}
