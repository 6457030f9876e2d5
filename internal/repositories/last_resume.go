package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ErrNoLastResume is returned by Load when nothing has been saved yet.
var ErrNoLastResume = errors.New("no previous resume found")

// LastResumeRepository is a single-slot key-value sink: every Save overwrites the previous record.
type LastResumeRepository interface {
	Save(ctx context.Context, record *models.LastResume) error
	Load(ctx context.Context) (*models.LastResume, error)
}

type fileLastResumeRepository struct {
	path   string
	logger *slog.Logger
}

func NewFileLastResumeRepository(path string, logger *slog.Logger) LastResumeRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &fileLastResumeRepository{path: path, logger: logger}
}

// Save implements LastResumeRepository. The file is replaced atomically.
func (r *fileLastResumeRepository) Save(ctx context.Context, record *models.LastResume) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create last resume directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".last_resume-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write last resume: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace last resume: %w", err)
	}

	r.logger.InfoContext(ctx, "last_resume.saved", "backend", "file", "path", r.path, "bytes", len(data))
	return nil
}

// Load implements LastResumeRepository.
func (r *fileLastResumeRepository) Load(ctx context.Context) (*models.LastResume, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoLastResume
		}
		return nil, fmt.Errorf("failed to read last resume: %w", err)
	}

	return decodeRecord(data)
}

func encodeRecord(record *models.LastResume) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("failed to encode last resume: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*models.LastResume, error) {
	var record models.LastResume
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode last resume: %w", err)
	}
	return &record, nil
}
