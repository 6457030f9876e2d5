package services

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

type TextExtractorService interface {
	ExtractText(r io.Reader, fileName string) (string, error)
}

type textExtractorService struct {
	logger *slog.Logger
}

func NewTextExtractorService(logger *slog.Logger) TextExtractorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &textExtractorService{logger: logger}
}

// ExtractText returns the plain text of a .txt or .pdf upload. Any other
// extension yields ErrUnsupportedFormat.
func (t *textExtractorService) ExtractText(r io.Reader, fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnreadableDocument, fileName)
		}

		t.logger.Info("extract.done", "format", "txt", "file", fileName, "chars", len(data))
		return string(data), nil

	case ".pdf":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read PDF file: %w", err)
		}

		text, pages, err := extractPDFText(data)
		if err != nil {
			return "", err
		}

		t.logger.Info("extract.done", "format", "pdf", "file", fileName, "pages", pages, "chars", len(text))
		return text, nil

	default:
		t.logger.Warn("extract.unsupported", "file", fileName)
		return "", ErrUnsupportedFormat
	}
}

// extractPDFText joins the text of every page that has any, one newline between pages.
func extractPDFText(data []byte) (text string, totalPage int, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, totalPage = "", 0
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to open PDF: %v", ErrUnreadableDocument, err)
	}

	totalPage = reader.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		pageText = strings.TrimRight(pageText, "\r\n")
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), totalPage, nil
}
