package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"metroflow-api/models"
)

// fakeRowWriter records batch sizes and fails the batches listed in
// failOn (1-based call numbers).
type fakeRowWriter struct {
	calls  []int
	failOn map[int]bool
}

func (w *fakeRowWriter) InsertRows(ctx context.Context, rows []models.RidershipRecord) error {
	w.calls = append(w.calls, len(rows))
	if w.failOn[len(w.calls)] {
		return errors.New("insert failed")
	}
	return nil
}

func makeRows(n int) []models.RidershipRecord {
	rows := make([]models.RidershipRecord, n)
	for i := range rows {
		rows[i] = models.RidershipRecord{StationName: "Bank", Hour: i % 24}
	}
	return rows
}

func TestUploadBatching(t *testing.T) {
	writer := &fakeRowWriter{}
	svc := NewIngestService(writer, 1000, zerolog.Nop())

	result := svc.Upload(context.Background(), makeRows(2500))

	if len(writer.calls) != 3 {
		t.Fatalf("got %d insert calls, want 3", len(writer.calls))
	}
	wantSizes := []int{1000, 1000, 500}
	for i, size := range wantSizes {
		if writer.calls[i] != size {
			t.Errorf("call %d size = %d, want %d", i+1, writer.calls[i], size)
		}
	}
	if result.TotalRows != 2500 || result.SuccessCount != 2500 || result.ErrorCount != 0 {
		t.Errorf("result = %+v, want {2500 2500 0}", result)
	}
}

func TestUploadPartialFailure(t *testing.T) {
	writer := &fakeRowWriter{failOn: map[int]bool{2: true}}
	svc := NewIngestService(writer, 1000, zerolog.Nop())

	result := svc.Upload(context.Background(), makeRows(2500))

	// A failed batch is counted and skipped; later batches still run.
	if len(writer.calls) != 3 {
		t.Fatalf("got %d insert calls, want 3", len(writer.calls))
	}
	if result.TotalRows != 2500 {
		t.Errorf("TotalRows = %d, want 2500", result.TotalRows)
	}
	if result.SuccessCount != 1500 {
		t.Errorf("SuccessCount = %d, want 1500", result.SuccessCount)
	}
	if result.ErrorCount != 1000 {
		t.Errorf("ErrorCount = %d, want 1000", result.ErrorCount)
	}
}

func TestUploadCountsAlwaysAddUp(t *testing.T) {
	cases := []struct {
		name      string
		rows      int
		batchSize int
		failOn    map[int]bool
	}{
		{"exact multiple", 3000, 1000, nil},
		{"remainder batch", 2501, 1000, nil},
		{"single short batch", 7, 1000, nil},
		{"all batches fail", 2500, 1000, map[int]bool{1: true, 2: true, 3: true}},
		{"last batch fails", 2500, 1000, map[int]bool{3: true}},
		{"tiny batch size", 10, 3, map[int]bool{2: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writer := &fakeRowWriter{failOn: tc.failOn}
			svc := NewIngestService(writer, tc.batchSize, zerolog.Nop())

			result := svc.Upload(context.Background(), makeRows(tc.rows))

			if result.TotalRows != tc.rows {
				t.Errorf("TotalRows = %d, want %d", result.TotalRows, tc.rows)
			}
			if result.SuccessCount+result.ErrorCount != tc.rows {
				t.Errorf("success+error = %d, want %d",
					result.SuccessCount+result.ErrorCount, tc.rows)
			}
		})
	}
}

func TestUploadEmptyInput(t *testing.T) {
	writer := &fakeRowWriter{}
	svc := NewIngestService(writer, 1000, zerolog.Nop())

	result := svc.Upload(context.Background(), nil)

	if len(writer.calls) != 0 {
		t.Errorf("got %d insert calls, want 0", len(writer.calls))
	}
	if result.TotalRows != 0 || result.SuccessCount != 0 || result.ErrorCount != 0 {
		t.Errorf("result = %+v, want all zero", result)
	}
}

func TestNewIngestServiceDefaultBatchSize(t *testing.T) {
	svc := NewIngestService(&fakeRowWriter{}, 0, zerolog.Nop())
	if svc.batchSize != 1000 {
		t.Errorf("batchSize = %d, want 1000", svc.batchSize)
	}
}
