package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Model is a statistical sentiment model producing a 3-way probability
// distribution for a text.
type Model interface {
	Predict(ctx context.Context, text string) (Scores, error)
}

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute

	inferenceBurst = 5
)

// HTTPModelConfig configures an inference-endpoint backed model.
type HTTPModelConfig struct {
	BaseURL string
	ModelID string
	Timeout time.Duration
	RPS     float64
}

// HTTPModel calls a HuggingFace-style text-classification inference endpoint.
// Requests are rate limited and a circuit breaker opens after consecutive
// failures so a struggling model server degrades to the lexicon fallback
// instead of stalling the pipeline.
type HTTPModel struct {
	cfg         HTTPModelConfig
	client      *http.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

func NewHTTPModel(cfg HTTPModelConfig, logger *zerolog.Logger) *HTTPModel {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}

	return &HTTPModel{
		cfg:         cfg,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), inferenceBurst),
	}
}

func (m *HTTPModel) checkCircuit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Now().Before(m.circuitOpenUntil) {
		return fmt.Errorf("circuit breaker is open until %v", m.circuitOpenUntil)
	}

	return nil
}

func (m *HTTPModel) recordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures = 0
}

func (m *HTTPModel) recordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consecutiveFailures++
	if m.consecutiveFailures >= circuitBreakerThreshold {
		m.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		m.logger.Warn().
			Int("consecutive_failures", m.consecutiveFailures).
			Str("model", m.cfg.ModelID).
			Time("open_until", m.circuitOpenUntil).
			Msg("circuit breaker opened")
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceClass struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Predict sends the text to the inference endpoint and maps the returned
// label scores onto the fixed negative/neutral/positive distribution.
func (m *HTTPModel) Predict(ctx context.Context, text string) (Scores, error) {
	if err := m.checkCircuit(); err != nil {
		return Scores{}, fmt.Errorf("%w: %s", ErrModelInference, err)
	}

	if err := m.rateLimiter.Wait(ctx); err != nil {
		return Scores{}, fmt.Errorf("%w: rate limiter: %s", ErrModelInference, err)
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return Scores{}, fmt.Errorf("%w: marshal request: %s", ErrModelInference, err)
	}

	endpoint, err := url.JoinPath(m.cfg.BaseURL, "models", m.cfg.ModelID)
	if err != nil {
		return Scores{}, fmt.Errorf("%w: build endpoint: %s", ErrModelInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Scores{}, fmt.Errorf("%w: build request: %s", ErrModelInference, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		m.recordFailure()

		return Scores{}, fmt.Errorf("%w: %s", ErrModelInference, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		m.recordFailure()

		return Scores{}, fmt.Errorf("%w: endpoint returned %d", ErrModelInference, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		m.recordFailure()

		return Scores{}, fmt.Errorf("%w: read response: %s", ErrModelInference, err)
	}

	scores, err := parseInferenceResponse(raw)
	if err != nil {
		m.recordFailure()

		return Scores{}, err
	}

	m.recordSuccess()

	return scores, nil
}

// parseInferenceResponse decodes the [[{label, score}...]] inference payload.
// Both label vocabularies in use are handled: human-readable labels
// (negative/neutral/positive) and positional LABEL_0/1/2 where 0 is negative.
func parseInferenceResponse(raw []byte) (Scores, error) {
	var nested [][]inferenceClass

	if err := json.Unmarshal(raw, &nested); err != nil || len(nested) == 0 {
		// Some deployments return a flat array.
		var flat []inferenceClass
		if err := json.Unmarshal(raw, &flat); err != nil || len(flat) == 0 {
			return Scores{}, fmt.Errorf("%w: unexpected response shape", ErrModelInference)
		}

		nested = [][]inferenceClass{flat}
	}

	var scores Scores

	for _, class := range nested[0] {
		switch strings.ToLower(class.Label) {
		case "negative", "label_0":
			scores.Negative = class.Score
		case "neutral", "label_1":
			scores.Neutral = class.Score
		case "positive", "label_2":
			scores.Positive = class.Score
		default:
			return Scores{}, fmt.Errorf("%w: unknown label %q", ErrModelInference, class.Label)
		}
	}

	return scores, nil
}
