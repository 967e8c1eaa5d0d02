package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"promptparty/internal/model"
	"promptparty/internal/storage"
)

// Severity means strictly above this (on the raw upstream scale) fail
// moderation.
const severityThreshold = 2.0

const apiVersion = "2023-10-01"

// Result is the outcome of scoring one text
type Result struct {
	// AverageSeverity is the mean per-category severity, rounded to two
	// decimal places for reporting.
	AverageSeverity float64
	// Outcome is true when the unrounded mean exceeds the threshold.
	Outcome bool
}

// Verdict is the moderation result for one prompt
type Verdict struct {
	PromptID        model.PromptID
	Outcome         bool
	AverageSeverity float64
}

// Config holds content-moderation API settings
type Config struct {
	Endpoint string
	Key      string
	Timeout  time.Duration
}

// DefaultConfig returns default moderation settings
func DefaultConfig() Config {
	return Config{Timeout: 30 * time.Second}
}

// Service scores prompt text for safety severity
type Service struct {
	cfg        Config
	storage    storage.Storage
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new moderation service
func New(cfg Config, storage storage.Storage, logger *slog.Logger) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Service{
		cfg:        cfg,
		storage:    storage,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	CategoriesAnalysis []struct {
		Category string  `json:"category"`
		Severity float64 `json:"severity"`
	} `json:"categoriesAnalysis"`
}

// Score calls the moderation API with the given English text and
// derives a pass/fail outcome from the mean per-category severity.
func (s *Service) Score(ctx context.Context, englishText string) (Result, error) {
	payload, err := json.Marshal(analyzeRequest{Text: englishText})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/") +
		"/contentsafety/text:analyze?api-version=" + apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", s.cfg.Key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("%w: moderation returned status %d", model.ErrUpstream, resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	mean := 0.0
	if n := len(parsed.CategoriesAnalysis); n > 0 {
		total := 0.0
		for _, c := range parsed.CategoriesAnalysis {
			total += c.Severity
		}
		mean = total / float64(n)
	}

	// Outcome is computed from the unrounded mean; rounding is for
	// reporting only
	return Result{
		AverageSeverity: math.Round(mean*100) / 100,
		Outcome:         mean > severityThreshold,
	}, nil
}

// ModerateBatch scores the English text of each prompt. Missing
// prompts and prompts without an English entry are skipped; one
// upstream failure aborts the whole batch.
func (s *Service) ModerateBatch(ctx context.Context, ids []model.PromptID) ([]Verdict, error) {
	prompts, err := s.storage.GetPromptsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	verdicts := make([]Verdict, 0, len(prompts))
	for _, p := range prompts {
		text, ok := p.TextIn(model.LanguageEnglish)
		if !ok {
			s.logger.Warn("prompt has no English text, skipping",
				slog.String("prompt_id", string(p.ID)))
			continue
		}

		result, err := s.Score(ctx, text)
		if err != nil {
			return nil, err
		}

		verdicts = append(verdicts, Verdict{
			PromptID:        p.ID,
			Outcome:         result.Outcome,
			AverageSeverity: result.AverageSeverity,
		})
	}
	return verdicts, nil
}
