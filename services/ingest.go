package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"metroflow-api/models"
)

// UploadResult reports the outcome of one upload action. The counts always
// add up: TotalRows == SuccessCount + ErrorCount once Upload returns.
type UploadResult struct {
	TotalRows    int `json:"totalRows"`
	SuccessCount int `json:"successCount"`
	ErrorCount   int `json:"errorCount"`
}

// RowWriter inserts one batch of ridership rows into the store.
type RowWriter interface {
	InsertRows(ctx context.Context, rows []models.RidershipRecord) error
}

type GormRowWriter struct {
	db *gorm.DB
}

func NewGormRowWriter(db *gorm.DB) *GormRowWriter {
	return &GormRowWriter{db: db}
}

func (w *GormRowWriter) InsertRows(ctx context.Context, rows []models.RidershipRecord) error {
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.NewString()
		}
	}
	return w.db.WithContext(ctx).Create(&rows).Error
}

// IngestService submits parsed rows to the store in fixed-size batches.
// Batches run strictly in sequence; a failed batch is counted and skipped,
// never retried, and never aborts the remaining batches.
type IngestService struct {
	writer    RowWriter
	batchSize int
	log       zerolog.Logger
}

func NewIngestService(writer RowWriter, batchSize int, log zerolog.Logger) *IngestService {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &IngestService{writer: writer, batchSize: batchSize, log: log}
}

func (s *IngestService) Upload(ctx context.Context, rows []models.RidershipRecord) UploadResult {
	result := UploadResult{TotalRows: len(rows)}

	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		batch := rows[start:end]

		if err := s.writer.InsertRows(ctx, batch); err != nil {
			s.log.Error().Err(err).
				Int("batch", start/s.batchSize+1).
				Int("rows", len(batch)).
				Msg("batch insert failed")
			result.ErrorCount += len(batch)
			batchesFailed.Inc()
			rowsFailed.Add(float64(len(batch)))
			continue
		}

		result.SuccessCount += len(batch)
		rowsStored.Add(float64(len(batch)))
	}

	s.log.Info().
		Int("total", result.TotalRows).
		Int("success", result.SuccessCount).
		Int("errors", result.ErrorCount).
		Msg("upload complete")

	return result
}
