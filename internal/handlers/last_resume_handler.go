package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type LastResumeHandler struct {
	lastResumeRepo repositories.LastResumeRepository
	logger         *slog.Logger
}

func NewLastResumeHandler(lastResumeRepo repositories.LastResumeRepository, logger *slog.Logger) *LastResumeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LastResumeHandler{
		lastResumeRepo: lastResumeRepo,
		logger:         logger,
	}
}

// HandleGetLastResume handles GET /last-resume
func (h *LastResumeHandler) HandleGetLastResume(c *fiber.Ctx) error {
	record, err := h.lastResumeRepo.Load(c.UserContext())
	if err != nil {
		if errors.Is(err, repositories.ErrNoLastResume) {
			return respondError(c, fiber.StatusNotFound, msgNoLastResume)
		}
		h.logger.Error("last_resume.load_failed", "error", err)
		return respondError(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.JSON(record)
}
