package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/router"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY is not set; /analyze will answer 500 until it is configured")
	}

	// Initialize last resume sink
	lastResumeRepo, err := config.InitLastResumeRepository(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("❌ Failed to initialize last resume storage: %v", err)
	}

	// Initialize services
	extractor := services.NewTextExtractorService(logger)
	geminiService := services.NewGeminiService(cfg.Gemini.BaseURL, cfg.Gemini.Model)
	analyzerService, err := services.NewAnalyzerService(geminiService, services.WithLogger(logger))
	if err != nil {
		log.Fatalf("❌ Failed to initialize analyzer: %v", err)
	}
	log.Printf("✅ Analyzer initialized with model %s\n", geminiService.Model())

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(
		extractor,
		analyzerService,
		lastResumeRepo,
		cfg.Gemini.APIKey,
		logger,
	)
	lastResumeHandler := handlers.NewLastResumeHandler(lastResumeRepo, logger)
	log.Println("✅ Handlers initialized")

	app := router.Setup(cfg, analyzeHandler, lastResumeHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
