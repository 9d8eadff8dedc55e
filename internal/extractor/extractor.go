package extractor

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
	"resume-parser/pkg/models"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extractor turns uploaded resume bytes into plain text
type Extractor struct {
	logger types.Logger
}

// New creates an extractor logging through the global logger
func New() *Extractor {
	return &Extractor{logger: logging.GetGlobalLogger()}
}

// DetectFormat decides the document format from the file extension, falling
// back to the declared content type only when the name has no extension.
func DetectFormat(filename, contentType string) (models.DocumentFormat, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		switch ext {
		case ".pdf":
			return models.FormatPDF, nil
		case ".docx":
			return models.FormatDOCX, nil
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "application/pdf":
		return models.FormatPDF, nil
	case docxContentType:
		return models.FormatDOCX, nil
	case "":
		return "", fmt.Errorf("%w: file %q has no extension", ErrUnsupportedFormat, filename)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

// Extract detects the format from filename and extracts its text
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*models.ExtractedDocument, error) {
	format, err := DetectFormat(filename, "")
	if err != nil {
		return nil, err
	}
	return e.ExtractFormat(ctx, format, filename, data)
}

// ExtractFormat extracts text from data already known to be in format
func (e *Extractor) ExtractFormat(ctx context.Context, format models.DocumentFormat, filename string, data []byte) (*models.ExtractedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		text string
		err  error
	)
	switch format {
	case models.FormatPDF:
		text, err = extractPDF(ctx, data)
	case models.FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		e.logger.Warn("Text extraction failed", map[string]interface{}{
			"filename": filename,
			"format":   string(format),
			"size":     len(data),
			"error":    err.Error(),
		})
		return nil, err
	}

	text = strings.TrimSpace(text)
	e.logger.Debug("Text extracted", map[string]interface{}{
		"filename":    filename,
		"format":      string(format),
		"size":        len(data),
		"text_length": len(text),
		"duration":    time.Since(start).String(),
	})

	return &models.ExtractedDocument{
		Filename: filename,
		Format:   format,
		Size:     len(data),
		Text:     text,
	}, nil
}
