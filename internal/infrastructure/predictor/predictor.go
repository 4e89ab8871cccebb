package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"slotzi.backend/internal/config"
	"slotzi.backend/internal/domain/entities"
	"slotzi.backend/internal/domain/services"
	"slotzi.backend/pkg/logger"
)

type predictResponse struct {
	Success       bool   `json:"success"`
	PredictedTime string `json:"predicted_time"`
	Message       string `json:"message,omitempty"`
}

// HTTPPredictor asks the remote prediction service for a reservation end time
type HTTPPredictor struct {
	endpoint   string
	httpClient *http.Client
}

// New returns the HTTP predictor when an endpoint is configured and the
// fixed-duration predictor otherwise.
func New(cfg config.PredictorConfig) services.DurationPredictor {
	if cfg.URL == "" {
		return NewFixedPredictor(cfg.FallbackSlot)
	}
	return NewHTTPPredictor(cfg.URL, cfg.Timeout)
}

func NewHTTPPredictor(endpoint string, timeout time.Duration) *HTTPPredictor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPredictor{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *HTTPPredictor) PredictEndTime(ctx context.Context, in services.PredictionRequest) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call predictor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("predictor returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode prediction response: %w", err)
	}
	if !out.Success || out.PredictedTime == "" {
		return "", fmt.Errorf("prediction failed: %s", out.Message)
	}

	logger.Debug(ctx, "Predicted reservation end time",
		zap.Int("group_size", in.GroupSize),
		zap.String("start", in.Time),
		zap.String("end", out.PredictedTime),
	)
	return out.PredictedTime, nil
}

// FixedPredictor ends every reservation a fixed duration after it starts.
// The result is capped at the end of the day.
type FixedPredictor struct {
	duration time.Duration
}

func NewFixedPredictor(duration time.Duration) *FixedPredictor {
	if duration <= 0 {
		duration = 90 * time.Minute
	}
	return &FixedPredictor{duration: duration}
}

func (p *FixedPredictor) PredictEndTime(_ context.Context, in services.PredictionRequest) (string, error) {
	start, err := entities.NormalizeClock(in.Time)
	if err != nil {
		return "", err
	}
	t, err := time.Parse(entities.TimeLayout, start)
	if err != nil {
		return "", err
	}

	end := t.Add(p.duration)
	if end.Day() != t.Day() {
		return "23:59:59", nil
	}
	return end.Format(entities.TimeLayout), nil
}
