package models

import "time"

// AnalysisRequest is the input to a single résumé analysis.
type AnalysisRequest struct {
	Text       string
	Role       string
	Company    string
	Credential string
}

// AnalysisResult is a successful analysis. Content always holds a JSON object; when the
// model did not answer with valid JSON it is {"raw_analysis": <text>}.
type AnalysisResult struct {
	Content  map[string]any
	Raw      string
	Template string
	Model    string
	Attempts int
}

type AttemptOutcome string

const (
	OutcomeSuccess   AttemptOutcome = "success"
	OutcomeRetryable AttemptOutcome = "retryable_error"
	OutcomeFatal     AttemptOutcome = "fatal_error"
	OutcomeTimeout   AttemptOutcome = "timeout"
)

// ModelAttempt records one call to the generation endpoint.
type ModelAttempt struct {
	Index      int
	StatusCode int
	Outcome    AttemptOutcome
	Elapsed    time.Duration
}
