package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func newTestServer(t *testing.T, geminiURL, apiKey string) (*http.Request, func(*http.Request) *http.Response) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Server: config.ServerConfig{AllowOrigins: "*", MaxFileSize: 1 << 20},
		Gemini: config.GeminiConfig{APIKey: apiKey},
	}

	repo := repositories.NewFileLastResumeRepository(filepath.Join(t.TempDir(), "last_resume.json"), logger)
	analyzer, err := services.NewAnalyzerService(
		services.NewGeminiService(geminiURL, ""),
		services.WithLogger(logger),
		services.WithSleep(func(_ context.Context, _ time.Duration) error { return nil }),
	)
	require.NoError(t, err)

	app := Setup(cfg,
		handlers.NewAnalyzeHandler(services.NewTextExtractorService(logger), analyzer, repo, cfg.Gemini.APIKey, logger),
		handlers.NewLastResumeHandler(repo, logger),
	)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("role", "Backend Engineer"))
	part, err := w.CreateFormFile("file", "resume.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Jane Doe\nGo, Postgres, Kubernetes"))
	require.NoError(t, w.Close())

	upload := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	upload.Header.Set("Content-Type", w.FormDataContentType())

	do := func(req *http.Request) *http.Response {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	return upload, do
}

func fakeGemini(t *testing.T, statuses ...int) *httptest.Server {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := statuses[len(statuses)-1]
		if calls < len(statuses) {
			status = statuses[calls]
		}
		calls++

		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{map[string]any{
					"content": map[string]any{"parts": []any{map[string]any{
						"text": "```json\n{\"summary\": \"Solid backend profile\", \"selection_chance\": \"70%\"}\n```",
					}}},
				}},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIndexAndHealth(t *testing.T) {
	_, do := newTestServer(t, "http://127.0.0.1:1", "key")

	resp := do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
}

func TestAnalyzeEndToEnd(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, http.StatusOK)
	upload, do := newTestServer(t, srv.URL, "key")

	resp := do(upload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analysis map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	assert.Equal(t, "Solid backend profile", analysis["summary"])
	assert.Equal(t, "70%", analysis["selection_chance"])

	resp = do(httptest.NewRequest(http.MethodGet, "/last-resume", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var last map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&last))
	assert.Equal(t, "resume.txt", last["filename"])
	assert.Equal(t, "Backend Engineer", last["role"])
	assert.Equal(t, analysis, last["analysis"])
}

func TestAnalyzeUpstreamDown(t *testing.T) {
	srv := fakeGemini(t, http.StatusServiceUnavailable)
	upload, do := newTestServer(t, srv.URL, "key")

	resp := do(upload)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, services.UnavailableMessage, body["error"])

	resp = do(httptest.NewRequest(http.MethodGet, "/last-resume", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	_, do := newTestServer(t, "http://127.0.0.1:1", "key")

	resp := do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
