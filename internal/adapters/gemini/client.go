// Package gemini provides an adapter for the Generative Language API.
// It implements mood analysis by sending the user's mood text to the model
// with a response schema that pins the output to exactly five genre strings.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/purushottamk3112/MoodVibe/internal/config"
	"github.com/purushottamk3112/MoodVibe/internal/core/domain"
	"github.com/purushottamk3112/MoodVibe/internal/core/ports"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

const model = "gemini-2.5-flash"

const systemPrompt = `You are a music expert specializing in mood analysis.
Analyze the given mood/feeling and provide 5 music genres or keywords that best match this mood.
Consider the emotional tone, energy level, and musical preferences that would complement this mood.
Respond with JSON in this exact format:
{"genres": ["genre1", "genre2", "genre3", "genre4", "genre5"]}`

const genreCount = 5

// fallbackGenres is returned whenever the model cannot produce a usable
// result. Availability over precision: the pipeline always recommends.
var fallbackGenres = []string{"pop", "indie", "electronic", "rock", "alternative"}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Parts []contentPart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateRequest struct {
	SystemInstruction content          `json:"system_instruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// genresSchema constrains the model output to a five-item string array.
var genresSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"genres": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 5,
			"maxItems": 5
		}
	},
	"required": ["genres"]
}`)

// Client calls the Generative Language API to infer genres from mood text.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

var _ ports.MoodAnalyzer = (*Client)(nil)

func NewClient(cfg config.GeminiConfig, logger *logrus.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// AnalyzeMood sends the mood text to the model and parses the structured
// genre list. Transient upstream failures are retried once; every remaining
// failure degrades to the fixed fallback genres rather than an error, so the
// returned error is always nil.
func (c *Client) AnalyzeMood(ctx context.Context, text string) (domain.MoodAnalysis, error) {
	genres, err := c.generateGenres(ctx, text)
	if err != nil && isTransient(err) {
		c.logger.WithError(err).WithField("failure", "network").Warn("mood analysis failed, retrying once")
		genres, err = c.generateGenres(ctx, text)
	}
	if err != nil {
		kind := "network"
		if isParseFailure(err) {
			kind = "parse"
		}
		c.logger.WithError(err).WithField("failure", kind).Warn("mood analysis failed, using fallback genres")
		return domain.MoodAnalysis{Genres: fallbackGenres}, nil
	}
	return domain.MoodAnalysis{Genres: genres}, nil
}

func (c *Client) generateGenres(ctx context.Context, text string) ([]string, error) {
	payload := generateRequest{
		SystemInstruction: content{Parts: []contentPart{{Text: systemPrompt}}},
		Contents:          []content{{Parts: []contentPart{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   genresSchema,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{fmt.Errorf("gemini: request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, &transientError{fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &parseError{fmt.Errorf("gemini: decode response: %w", err)}
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("gemini: %s", parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &parseError{fmt.Errorf("gemini: empty response")}
	}

	raw := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if raw == "" {
		return nil, &parseError{fmt.Errorf("gemini: empty response")}
	}

	var result struct {
		Genres []string `json:"genres"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, &parseError{fmt.Errorf("gemini: decode genres: %w", err)}
	}
	if len(result.Genres) != genreCount {
		return nil, &parseError{fmt.Errorf("gemini: expected %d genres, got %d", genreCount, len(result.Genres))}
	}
	return result.Genres, nil
}

// transientError marks failures worth one retry: network errors, 429, 5xx.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// parseError marks a response the model produced but we could not use.
// Retrying these is pointless; the model would answer the same way again.
type parseError struct{ err error }

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

func isParseFailure(err error) bool {
	var p *parseError
	return errors.As(err, &p)
}
