package services

import (
	"strconv"
	"strings"

	"metroflow-api/models"
)

// ParseRidershipCSV turns raw CSV text into ridership records. The first
// line is the header; blank lines are skipped; values are split on literal
// commas. Quoting and embedded delimiters are not supported, matching the
// upload format this dashboard has always used.
//
// Numeric fields that fail to parse default to 0. Returns ErrNoData when
// no data rows survive parsing.
func ParseRidershipCSV(text string) ([]models.RidershipRecord, error) {
	lines := strings.Split(text, "\n")

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []models.RidershipRecord
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		values := strings.Split(line, ",")
		rec := models.RidershipRecord{Extra: make(map[string]string)}
		for i, header := range headers {
			var raw string
			if i < len(values) {
				raw = strings.TrimSpace(values[i])
			}
			setField(&rec, header, raw)
		}
		rows = append(rows, rec)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

func setField(rec *models.RidershipRecord, header, raw string) {
	switch header {
	case "timestamp":
		rec.Timestamp = raw
	case "station_name":
		rec.StationName = raw
	case "line":
		rec.Line = raw
	case "weather_condition":
		rec.WeatherCondition = raw
	case "day_of_week":
		rec.DayOfWeek = raw
	case "service_status":
		rec.ServiceStatus = raw
	case "congestion_level":
		rec.CongestionLevel = raw
	case "passenger_count":
		rec.PassengerCount = coerceInt(raw)
	case "entry_count":
		rec.EntryCount = coerceInt(raw)
	case "exit_count":
		rec.ExitCount = coerceInt(raw)
	case "hour":
		rec.Hour = coerceInt(raw)
	case "is_rush_hour":
		rec.IsRushHour = coerceInt(raw)
	case "delays_minutes":
		rec.DelaysMinutes = coerceInt(raw)
	case "platform_crowding":
		rec.PlatformCrowding = coerceInt(raw)
	case "train_frequency":
		rec.TrainFrequency = coerceInt(raw)
	case "avg_dwell_time":
		rec.AvgDwellTime = coerceInt(raw)
	case "incidents":
		rec.Incidents = coerceInt(raw)
	case "maintenance_scheduled":
		rec.MaintenanceScheduled = coerceInt(raw)
	case "accessibility_requests":
		rec.AccessibilityRequests = coerceInt(raw)
	case "ticket_sales":
		rec.TicketSales = coerceInt(raw)
	case "contactless_payments":
		rec.ContactlessPayments = coerceInt(raw)
	case "oyster_payments":
		rec.OysterPayments = coerceInt(raw)
	case "previous_hour_flow":
		rec.PreviousHourFlow = coerceInt(raw)
	case "predicted_next_hour":
		rec.PredictedNextHour = coerceInt(raw)
	case "anomaly_detected":
		rec.AnomalyDetected = coerceInt(raw)
	case "temperature":
		rec.Temperature = coerceFloat(raw)
	case "peak_multiplier":
		rec.PeakMultiplier = coerceFloat(raw)
	default:
		rec.Extra[header] = raw
	}
}

// coerceInt accepts plain integers and truncates decimal values, so
// "12.5" becomes 12 rather than 0. Anything else defaults to 0.
func coerceInt(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

func coerceFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
