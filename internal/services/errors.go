package services

import (
	"errors"
	"fmt"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// UnavailableMessage is the user-facing text for every terminal upstream failure.
const UnavailableMessage = "The analysis service is temporarily unavailable. Please try again in a few moments."

var (
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrMissingCredential  = errors.New("missing gemini api credential")
	ErrMalformedResponse  = errors.New("malformed gemini response")
)

type FailureKind string

const (
	KindRateLimited FailureKind = "rate_limited"
	KindUnavailable FailureKind = "unavailable"
	KindTimeout     FailureKind = "timeout"
	KindStatus      FailureKind = "unexpected_status"
	KindMalformed   FailureKind = "malformed_response"
	KindTransport   FailureKind = "transport"
)

// UpstreamError is the terminal failure of an analysis after the retry loop gave up.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int
	Attempts   []models.ModelAttempt
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gemini %s (status %d) after %d attempt(s): %v", e.Kind, e.StatusCode, len(e.Attempts), e.Err)
	}
	return fmt.Sprintf("gemini %s after %d attempt(s): %v", e.Kind, len(e.Attempts), e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Transient reports whether the upstream was overloaded or slow rather than broken.
func (e *UpstreamError) Transient() bool {
	switch e.Kind {
	case KindRateLimited, KindUnavailable, KindTimeout:
		return true
	}
	return false
}

// StatusError is a non-200 answer from the generation endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Body)
}
