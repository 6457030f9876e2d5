package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	extractor      services.TextExtractorService
	analyzer       services.AnalyzerService
	lastResumeRepo repositories.LastResumeRepository
	apiKey         string
	logger         *slog.Logger
}

func NewAnalyzeHandler(
	extractor services.TextExtractorService,
	analyzer services.AnalyzerService,
	lastResumeRepo repositories.LastResumeRepository,
	apiKey string,
	logger *slog.Logger,
) *AnalyzeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeHandler{
		extractor:      extractor,
		analyzer:       analyzer,
		lastResumeRepo: lastResumeRepo,
		apiKey:         apiKey,
		logger:         logger,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, msgNoFile)
	}
	if file.Filename == "" {
		return respondError(c, fiber.StatusBadRequest, msgEmptyFilename)
	}

	role := strings.TrimSpace(c.FormValue("role"))
	company := strings.TrimSpace(c.FormValue("company"))
	requestID, _ := c.Locals("requestid").(string)

	h.logger.Info("analyze.request",
		"request_id", requestID,
		"file", file.Filename,
		"size", file.Size,
		"role", role,
		"company", company,
	)

	src, err := file.Open()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, msgUnreadableDocument)
	}
	defer src.Close()

	text, err := h.extractor.ExtractText(src, file.Filename)
	if err != nil {
		status, msg := MapError(err)
		return respondError(c, status, msg)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), models.AnalysisRequest{
		Text:       text,
		Role:       role,
		Company:    company,
		Credential: h.apiKey,
	})
	if err != nil {
		status, msg := MapError(err)
		h.logger.Error("analyze.failed", "request_id", requestID, "status", status, "error", err)
		return respondError(c, status, msg)
	}

	record := &models.LastResume{
		Filename:   file.Filename,
		UploadedAt: time.Now(),
		Role:       role,
		Company:    company,
		Text:       text,
		Analysis:   result.Content,
	}
	if err := h.lastResumeRepo.Save(c.UserContext(), record); err != nil {
		h.logger.Error("last_resume.save_failed", "request_id", requestID, "error", err)
	}

	return c.JSON(result.Content)
}
