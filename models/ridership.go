package models

import "time"

// RidershipRecord is one station/hour observation from the underground
// network. Rows are created in bulk from uploaded CSV files and never
// mutated afterwards.
//
// The timestamp is stored as the raw string from the source file; the
// store column is timestamptz and Postgres does the coercion on insert.
type RidershipRecord struct {
	ID                    string    `gorm:"column:id;primaryKey" json:"id,omitempty"`
	Timestamp             string    `gorm:"column:timestamp" json:"timestamp"`
	StationName           string    `gorm:"column:station_name" json:"station_name"`
	Line                  string    `gorm:"column:line" json:"line"`
	PassengerCount        int       `gorm:"column:passenger_count" json:"passenger_count"`
	EntryCount            int       `gorm:"column:entry_count" json:"entry_count"`
	ExitCount             int       `gorm:"column:exit_count" json:"exit_count"`
	Temperature           float64   `gorm:"column:temperature" json:"temperature"`
	WeatherCondition      string    `gorm:"column:weather_condition" json:"weather_condition"`
	DayOfWeek             string    `gorm:"column:day_of_week" json:"day_of_week"`
	Hour                  int       `gorm:"column:hour" json:"hour"`
	IsRushHour            int       `gorm:"column:is_rush_hour" json:"is_rush_hour"`
	DelaysMinutes         int       `gorm:"column:delays_minutes" json:"delays_minutes"`
	ServiceStatus         string    `gorm:"column:service_status" json:"service_status"`
	CongestionLevel       string    `gorm:"column:congestion_level" json:"congestion_level"`
	PlatformCrowding      int       `gorm:"column:platform_crowding" json:"platform_crowding"`
	TrainFrequency        int       `gorm:"column:train_frequency" json:"train_frequency"`
	AvgDwellTime          int       `gorm:"column:avg_dwell_time" json:"avg_dwell_time"`
	Incidents             int       `gorm:"column:incidents" json:"incidents"`
	MaintenanceScheduled  int       `gorm:"column:maintenance_scheduled" json:"maintenance_scheduled"`
	AccessibilityRequests int       `gorm:"column:accessibility_requests" json:"accessibility_requests"`
	TicketSales           int       `gorm:"column:ticket_sales" json:"ticket_sales"`
	ContactlessPayments   int       `gorm:"column:contactless_payments" json:"contactless_payments"`
	OysterPayments        int       `gorm:"column:oyster_payments" json:"oyster_payments"`
	PeakMultiplier        float64   `gorm:"column:peak_multiplier" json:"peak_multiplier"`
	PreviousHourFlow      int       `gorm:"column:previous_hour_flow" json:"previous_hour_flow"`
	PredictedNextHour     int       `gorm:"column:predicted_next_hour" json:"predicted_next_hour"`
	AnomalyDetected       int       `gorm:"column:anomaly_detected" json:"anomaly_detected"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at,omitempty"`

	// Extra keeps values from CSV headers that have no dedicated column.
	// Passed through as trimmed strings, never persisted.
	Extra map[string]string `gorm:"-" json:"-"`
}

func (RidershipRecord) TableName() string { return "underground_data" }
