package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/resume-analyzer/internal/config"
)

// Sends a one-word prompt to the configured model on each API version to verify the key.
func main() {
	cfg := config.Load()

	if cfg.Gemini.APIKey == "" {
		log.Println("❌ GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	log.Printf("🔑 Testing with API key: %s...", maskKey(cfg.Gemini.APIKey))
	log.Printf("🤖 Model: %s", cfg.Gemini.Model)

	okCount := 0
	for _, version := range []string{"v1beta", "v1"} {
		log.Printf("\n--- Testing %s endpoint ---", version)

		text, err := probe(cfg.Gemini.APIKey, cfg.Gemini.Model, version)
		if err != nil {
			log.Printf("   ❌ Error: %v", err)
			continue
		}

		log.Printf("   ✅ Response: %s", firstN(strings.TrimSpace(text), 200))
		okCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	if okCount == 0 {
		log.Println("❌ Gemini API is not reachable with this key")
		os.Exit(1)
	}
	log.Printf("✅ %d/2 endpoints answered", okCount)
}

func probe(apiKey, model, version string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: version},
	})
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text("Say hello in one word"), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func maskKey(key string) string {
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:10]
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
