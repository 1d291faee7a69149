package services

import "errors"

// Failure classes surfaced to handlers. Handlers map these onto HTTP
// statuses with errors.Is; nothing here is retried automatically.
var (
	// ErrNoData: the CSV contained a header but no data rows.
	ErrNoData = errors.New("no valid data found in CSV file")

	// ErrStationRequired: a prediction was requested without a station.
	// Rejected before any network or database activity.
	ErrStationRequired = errors.New("station name is required")

	// ErrNotConfigured: the AI gateway credential is absent.
	ErrNotConfigured = errors.New("AI gateway API key is not configured")

	// ErrRateLimited: the gateway answered 429.
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrQuotaExhausted: the gateway answered 402. Terminal until the
	// workspace is topped up.
	ErrQuotaExhausted = errors.New("AI credits exhausted")

	// ErrServiceUnavailable: any other non-2xx from the gateway.
	ErrServiceUnavailable = errors.New("AI prediction service unavailable")

	// ErrMalformedResponse: the completion text was not the expected JSON.
	ErrMalformedResponse = errors.New("AI service returned an unexpected response")
)
