package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"metroflow-api/config"
)

// CompletionRequest is one prompt for the hosted model. Temperature 0
// means "use the client default" (low, for consistent numeric output).
type CompletionRequest struct {
	System      string
	User        string
	Temperature float64
}

// ChatClient produces a text completion for a prompt. Satisfied by
// GatewayClient in production and by fakes in tests.
type ChatClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GatewayClient talks to the hosted chat-completions gateway. One request
// per call, no retries; failures come back as the classified sentinel
// errors from errors.go.
type GatewayClient struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	model       string
	temperature float64
	log         zerolog.Logger
}

func NewGatewayClient(cfg config.AIConfig, log zerolog.Logger) *GatewayClient {
	return &GatewayClient{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		url:         cfg.GatewayURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *GatewayClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	body, err := json.Marshal(chatPayload{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building gateway request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		gatewayErrors.WithLabelValues("network").Inc()
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		gatewayErrors.WithLabelValues("rate_limit").Inc()
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		gatewayErrors.WithLabelValues("quota").Inc()
		return "", ErrQuotaExhausted
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		errBody, _ := io.ReadAll(resp.Body)
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", string(errBody)).
			Msg("ai gateway error")
		gatewayErrors.WithLabelValues("unavailable").Inc()
		return "", ErrServiceUnavailable
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || len(parsed.Choices) == 0 {
		gatewayErrors.WithLabelValues("malformed").Inc()
		return "", ErrMalformedResponse
	}

	return parsed.Choices[0].Message.Content, nil
}
