package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "AIzaTestKey123"

func geminiTextBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	return string(b)
}

func TestGenerateContent_Success(t *testing.T) {
	var gotPath, gotKey, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiTextBody("```json\n{\"summary\":\"ok\"}\n```")))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "")
	text, err := svc.GenerateContent(context.Background(), testAPIKey, "Analyze this")

	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"summary\":\"ok\"}\n```", text)
	assert.Equal(t, "/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, testAPIKey, gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, DefaultGeminiModel, svc.Model())

	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "Analyze this", parts[0].(map[string]any)["text"])
	assert.Equal(t, map[string]any{"temperature": 0.0}, gotBody["generationConfig"])
}

func TestGenerateContent_CustomModel(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(geminiTextBody("hi")))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL+"/", "gemini-2.0-flash")
	_, err := svc.GenerateContent(context.Background(), testAPIKey, "p")

	require.NoError(t, err)
	assert.Equal(t, "/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "gemini-2.0-flash", svc.Model())
}

func TestGenerateContent_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "")
	_, err := svc.GenerateContent(context.Background(), testAPIKey, "p")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "quota exceeded")
}

func TestGenerateContent_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"no candidates", `{"candidates":[]}`},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc := NewGeminiService(srv.URL, "")
			_, err := svc.GenerateContent(context.Background(), testAPIKey, "p")

			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestGenerateContent_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := NewGeminiService(url, "")
	_, err := svc.GenerateContent(context.Background(), testAPIKey, "p")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.Contains(t, err.Error(), ":generateContent")
}

func TestGenerateContent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	svc := NewGeminiService(srv.URL, "", WithRequestTimeout(50*time.Millisecond))
	_, err := svc.GenerateContent(context.Background(), testAPIKey, "p")

	require.Error(t, err)
	assert.Equal(t, KindTimeout, classify(err).kind)
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
