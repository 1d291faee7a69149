package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"metroflow-api/models"
)

type fakeCongestionStore struct {
	rows     []models.RidershipRecord
	err      error
	calls    int
	stations []string
	since    time.Time
	limit    int
}

func (f *fakeCongestionStore) ObservationsForStations(ctx context.Context, stations []string, since time.Time, limit int) ([]models.RidershipRecord, error) {
	f.calls++
	f.stations = stations
	f.since = since
	f.limit = limit
	return f.rows, f.err
}

const validAnalysis = `{
  "hotspots": [{"station": "Oxford Circus", "severity": "High", "passengerCount": 2100}],
  "predictions": [{"hour": 9, "stations": ["Oxford Circus"], "expectedLevel": "Very High"}],
  "recommendations": ["Increase Central line frequency"],
  "alternativeRoutes": [{"from": "Oxford Circus", "to": "Bank", "alternative": "Victoria to Green Park"}],
  "overallStatus": "Elevated"
}`

func TestAnalyzeRequiresStations(t *testing.T) {
	store := &fakeCongestionStore{}
	ai := &fakeChatClient{completion: validAnalysis}
	svc := NewCongestionService(store, ai, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), nil)
	if !errors.Is(err, ErrStationsRequired) {
		t.Errorf("err = %v, want ErrStationsRequired", err)
	}
	if store.calls != 0 || len(ai.requests) != 0 {
		t.Error("validation failure must not touch store or gateway")
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	store := &fakeCongestionStore{
		rows: []models.RidershipRecord{
			{StationName: "Oxford Circus", PassengerCount: 2100, CongestionLevel: "High"},
		},
	}
	ai := &fakeChatClient{completion: "```json\n" + validAnalysis + "\n```"}
	svc := NewCongestionService(store, ai, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	}

	analysis, err := svc.Analyze(context.Background(), []string{"Oxford Circus", "Bank"})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if len(analysis.Hotspots) != 1 || analysis.Hotspots[0].Station != "Oxford Circus" {
		t.Errorf("hotspots = %+v", analysis.Hotspots)
	}
	if analysis.OverallStatus != "Elevated" {
		t.Errorf("OverallStatus = %q", analysis.OverallStatus)
	}

	if store.limit != congestionFetchLimit {
		t.Errorf("fetch limit = %d, want %d", store.limit, congestionFetchLimit)
	}
	wantSince := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	if !store.since.Equal(wantSince) {
		t.Errorf("since = %v, want %v", store.since, wantSince)
	}

	req := ai.requests[0]
	if req.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", req.Temperature)
	}
	if !strings.Contains(req.User, "Oxford Circus, Bank") {
		t.Error("prompt should list the requested stations")
	}
}

func TestAnalyzeHistoryFailureIsNotFatal(t *testing.T) {
	store := &fakeCongestionStore{err: errors.New("db down")}
	ai := &fakeChatClient{completion: validAnalysis}
	svc := NewCongestionService(store, ai, zerolog.Nop())

	if _, err := svc.Analyze(context.Background(), []string{"Bank"}); err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
}

func TestAnalyzeMalformedCompletion(t *testing.T) {
	store := &fakeCongestionStore{}
	ai := &fakeChatClient{completion: "I think traffic will be heavy."}
	svc := NewCongestionService(store, ai, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), []string{"Bank"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestAnalyzeGatewayErrorPropagates(t *testing.T) {
	store := &fakeCongestionStore{}
	ai := &fakeChatClient{err: ErrRateLimited}
	svc := NewCongestionService(store, ai, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), []string{"Bank"})
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}
