package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promptparty/internal/model"
)

// Detection confidence below this aborts localization
const minDetectionConfidence = 0.2

const apiVersion = "3.0"

// Localizer produces a multi-language text bundle from one source
// string. Implemented by Client; substituted with a double in tests.
type Localizer interface {
	Localize(ctx context.Context, text, source string) ([]model.LocalizedText, error)
}

// Config holds translation API settings
type Config struct {
	Endpoint string
	Key      string
	Region   string
	Timeout  time.Duration
}

// DefaultConfig returns default translation settings
func DefaultConfig() Config {
	return Config{
		Region:  "italynorth",
		Timeout: 30 * time.Second,
	}
}

// Client calls the language detection and translation API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a translation client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Region == "" {
		cfg.Region = DefaultConfig().Region
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

var _ Localizer = (*Client)(nil)

type textRequest struct {
	Text string `json:"Text"`
}

type detectResponse struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// Detect returns the detected language code for text and the
// detection confidence score.
func (c *Client) Detect(ctx context.Context, text string) (string, float64, error) {
	var results []detectResponse
	query := url.Values{"api-version": {apiVersion}}
	if err := c.post(ctx, "/detect", query, text, &results); err != nil {
		return "", 0, err
	}
	if len(results) == 0 {
		return "", 0, fmt.Errorf("%w: detect returned no results", model.ErrUpstream)
	}
	return results[0].Language, results[0].Score, nil
}

// Translate translates text from one language to another
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	var results []translateResponse
	query := url.Values{
		"api-version": {apiVersion},
		"from":        {from},
		"to":          {to},
	}
	if err := c.post(ctx, "/translate", query, text, &results); err != nil {
		return "", err
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return "", fmt.Errorf("%w: translate returned no results", model.ErrUpstream)
	}
	return results[0].Translations[0].Text, nil
}

// Localize builds one entry per supported language, in the fixed list
// order, with the source text carried over verbatim where its language
// falls. An empty source triggers detection first; any failed
// translation call aborts the whole bundle.
func (c *Client) Localize(ctx context.Context, text, source string) ([]model.LocalizedText, error) {
	if source == "" {
		lang, score, err := c.Detect(ctx, text)
		if err != nil {
			return nil, err
		}
		if score < minDetectionConfidence {
			return nil, fmt.Errorf("%w: detected %q with confidence %.2f", model.ErrUnsupportedLanguage, lang, score)
		}
		source = lang
	}

	texts := make([]model.LocalizedText, 0, len(model.SupportedLanguages))
	for _, target := range model.SupportedLanguages {
		if target == source {
			texts = append(texts, model.LocalizedText{Text: text, Language: source})
			continue
		}
		translated, err := c.Translate(ctx, text, source, target)
		if err != nil {
			return nil, err
		}
		texts = append(texts, model.LocalizedText{Text: translated, Language: target})
	}
	return texts, nil
}

// post sends a single-text request to the API and decodes the response
func (c *Client) post(ctx context.Context, path string, query url.Values, text string, result any) error {
	payload, err := json.Marshal([]textRequest{{Text: text}})
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	endpoint := strings.TrimSuffix(c.cfg.Endpoint, "/") + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.cfg.Region)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", model.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	return nil
}
