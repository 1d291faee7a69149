package models

import "time"

// Prediction is the persisted audit row for one prediction call: what was
// asked, what the model answered, and which model answered it.
// InputFeatures holds the full request context as a JSON blob.
type Prediction struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	StationName     string    `gorm:"column:station_name" json:"station_name"`
	PredictionType  string    `gorm:"column:prediction_type" json:"prediction_type"`
	PredictedValue  float64   `gorm:"column:predicted_value" json:"predicted_value"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	PredictionTime  time.Time `gorm:"column:prediction_time" json:"prediction_time"`
	InputFeatures   []byte    `gorm:"column:input_features;type:jsonb" json:"input_features"`
	ModelVersion    string    `gorm:"column:model_version" json:"model_version"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Prediction) TableName() string { return "predictions" }
