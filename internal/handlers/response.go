package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	msgNoFile             = "No file provided"
	msgEmptyFilename      = "Empty filename"
	msgUnsupportedFormat  = "Unsupported file format."
	msgUnreadableDocument = "Could not read text from the uploaded file."
	msgMissingCredential  = "GEMINI_API_KEY not configured in .env"
	msgNoLastResume       = "No previous resume found"
	msgInternal           = "Internal server error"
)

// MapError translates service errors to an HTTP status and the message shown to the client.
func MapError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.StatusBadRequest, msgUnsupportedFormat
	case errors.Is(err, services.ErrUnreadableDocument):
		return fiber.StatusBadRequest, msgUnreadableDocument
	case errors.Is(err, services.ErrMissingCredential):
		return fiber.StatusInternalServerError, msgMissingCredential
	}

	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.Transient() {
			return fiber.StatusServiceUnavailable, services.UnavailableMessage
		}
		return fiber.StatusBadGateway, services.UnavailableMessage
	}

	return fiber.StatusInternalServerError, msgInternal
}

func respondError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: msg})
}
