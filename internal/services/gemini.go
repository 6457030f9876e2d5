package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel   = "gemini-2.5-flash"

	defaultRequestTimeout = 30 * time.Second
	errorBodyLimit        = 200
)

// GeminiService performs exactly one generateContent call; retries live in the analyzer.
type GeminiService interface {
	GenerateContent(ctx context.Context, apiKey, prompt string) (string, error)
	Model() string
}

type geminiService struct {
	client  *http.Client
	baseURL string
	model   string
}

type GeminiOption func(*geminiService)

// WithRequestTimeout overrides the 30s per-call deadline.
func WithRequestTimeout(timeout time.Duration) GeminiOption {
	return func(g *geminiService) {
		g.client.Timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) GeminiOption {
	return func(g *geminiService) {
		g.client = client
	}
}

func NewGeminiService(baseURL, model string, opts ...GeminiOption) GeminiService {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &geminiService{
		client:  &http.Client{Timeout: defaultRequestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *geminiService) Model() string {
	return g.model
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// GenerateContent implements GeminiService.
func (g *geminiService) GenerateContent(ctx context.Context, apiKey, prompt string) (string, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := g.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(apiKey), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", redactURL(err, endpoint))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), errorBodyLimit)}
	}

	return parseGenerateContentResponse(respBody)
}

func (g *geminiService) endpoint() string {
	return fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)
}

func parseGenerateContentResponse(body []byte) (string, error) {
	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no parts", ErrMalformedResponse)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// redactURL keeps the api key query parameter out of error strings and logs.
func redactURL(err error, endpoint string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		redacted := *urlErr
		redacted.URL = endpoint
		return &redacted
	}
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
