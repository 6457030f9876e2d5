package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = time.Second
)

type AnalyzerService interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type analyzerService struct {
	geminiService GeminiService
	promptBuilder *PromptBuilder
	shapeChecker  ShapeChecker
	maxAttempts   int
	baseBackoff   time.Duration
	sleep         SleepFunc
	logger        *slog.Logger
}

type AnalyzerOption func(*analyzerService)

func WithMaxAttempts(n int) AnalyzerOption {
	return func(a *analyzerService) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

func WithBaseBackoff(d time.Duration) AnalyzerOption {
	return func(a *analyzerService) {
		a.baseBackoff = d
	}
}

func WithSleep(sleep SleepFunc) AnalyzerOption {
	return func(a *analyzerService) {
		a.sleep = sleep
	}
}

func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *analyzerService) {
		a.logger = logger
	}
}

func NewAnalyzerService(geminiService GeminiService, opts ...AnalyzerOption) (AnalyzerService, error) {
	shapeChecker, err := NewShapeChecker()
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis schemas: %w", err)
	}

	a := &analyzerService{
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		shapeChecker:  shapeChecker,
		maxAttempts:   DefaultMaxAttempts,
		baseBackoff:   DefaultBaseBackoff,
		sleep:         sleepContext,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return nil, ErrMissingCredential
	}

	role := strings.TrimSpace(req.Role)
	company := strings.TrimSpace(req.Company)
	reqID := uuid.New().String()
	start := time.Now()

	prompt, template := a.promptBuilder.BuildAnalysisPrompt(req.Text, role, company)

	a.logger.InfoContext(ctx, "analysis.start",
		"req_id", reqID,
		"model", a.geminiService.Model(),
		"template", template,
		"text_len", len(req.Text),
		"prompt_len", len(prompt),
	)

	text, attempts, err := a.generateWithRetry(ctx, reqID, req.Credential, prompt)
	if err != nil {
		a.logger.ErrorContext(ctx, "analysis.failed",
			"req_id", reqID,
			"attempts", len(attempts),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	content, parsed := ParseAnalysis(text)
	if !parsed {
		a.logger.WarnContext(ctx, "analysis.non_json_output", "req_id", reqID, "chars", len(text))
	} else if err := a.shapeChecker.Check(template, content); err != nil {
		a.logger.WarnContext(ctx, "analysis.shape_mismatch", "req_id", reqID, "template", template, "error", err)
	}

	a.logger.InfoContext(ctx, "analysis.done",
		"req_id", reqID,
		"attempts", len(attempts),
		"json", parsed,
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &models.AnalysisResult{
		Content:  content,
		Raw:      text,
		Template: string(template),
		Model:    a.geminiService.Model(),
		Attempts: len(attempts),
	}, nil
}

// generateWithRetry calls the endpoint up to maxAttempts times. Rate limits, 503s and
// timeouts back off 2^i * baseBackoff; other statuses and malformed bodies retry at once;
// transport faults stop the loop.
func (a *analyzerService) generateWithRetry(ctx context.Context, reqID, apiKey, prompt string) (string, []models.ModelAttempt, error) {
	attempts := make([]models.ModelAttempt, 0, a.maxAttempts)
	var last failure

	for i := 0; i < a.maxAttempts; i++ {
		start := time.Now()
		text, err := a.geminiService.GenerateContent(ctx, apiKey, prompt)
		attempt := models.ModelAttempt{Index: i, Elapsed: time.Since(start)}

		if err == nil {
			attempt.StatusCode = http.StatusOK
			attempt.Outcome = models.OutcomeSuccess
			attempts = append(attempts, attempt)
			a.logAttempt(ctx, reqID, attempt, nil)
			return text, attempts, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			attempt.Outcome = models.OutcomeFatal
			attempts = append(attempts, attempt)
			a.logAttempt(ctx, reqID, attempt, err)
			return "", attempts, fmt.Errorf("analysis cancelled: %w", ctxErr)
		}

		last = classify(err)
		attempt.StatusCode = last.statusCode
		attempt.Outcome = last.outcome
		attempts = append(attempts, attempt)
		a.logAttempt(ctx, reqID, attempt, err)

		if !last.retryable {
			return "", attempts, &UpstreamError{Kind: last.kind, StatusCode: last.statusCode, Attempts: attempts, Err: err}
		}
		if i == a.maxAttempts-1 {
			break
		}

		var wait time.Duration
		if last.backoff {
			wait = a.baseBackoff * time.Duration(1<<i)
		}
		a.logger.WarnContext(ctx, "analysis.retry",
			"req_id", reqID,
			"attempt", i+1,
			"max_attempts", a.maxAttempts,
			"kind", last.kind,
			"status", last.statusCode,
			"wait_ms", wait.Milliseconds(),
		)
		if wait > 0 {
			if err := a.sleep(ctx, wait); err != nil {
				return "", attempts, fmt.Errorf("analysis cancelled: %w", err)
			}
		}
	}

	return "", attempts, &UpstreamError{Kind: last.kind, StatusCode: last.statusCode, Attempts: attempts, Err: last.err}
}

func (a *analyzerService) logAttempt(ctx context.Context, reqID string, attempt models.ModelAttempt, err error) {
	attrs := []any{
		"req_id", reqID,
		"attempt", attempt.Index + 1,
		"status", attempt.StatusCode,
		"outcome", attempt.Outcome,
		"elapsed_ms", attempt.Elapsed.Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	a.logger.DebugContext(ctx, "analysis.attempt", attrs...)
}

type failure struct {
	kind       FailureKind
	statusCode int
	outcome    models.AttemptOutcome
	retryable  bool
	backoff    bool
	err        error
}

func classify(err error) failure {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		f := failure{statusCode: statusErr.StatusCode, outcome: models.OutcomeRetryable, retryable: true, err: err}
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests:
			f.kind, f.backoff = KindRateLimited, true
		case http.StatusServiceUnavailable:
			f.kind, f.backoff = KindUnavailable, true
		default:
			f.kind = KindStatus
		}
		return f
	}

	if errors.Is(err, ErrMalformedResponse) {
		return failure{kind: KindMalformed, statusCode: http.StatusOK, outcome: models.OutcomeRetryable, retryable: true, err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return failure{kind: KindTimeout, outcome: models.OutcomeTimeout, retryable: true, backoff: true, err: err}
	}

	return failure{kind: KindTransport, outcome: models.OutcomeFatal, err: err}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
