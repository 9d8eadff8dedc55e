package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"resume-parser/internal/logging"
	"resume-parser/internal/pipeline"
	"resume-parser/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrRender = errors.New("render_error")
	ErrEmpty  = errors.New("empty_export")
)

const (
	JSONFilename = "parsed_resume.json"
	TextFilename = "extracted_text.txt"

	JSONContentType = "application/json"
	TextContentType = "text/plain; charset=utf-8"
)

// Artifact is a downloadable file produced from request-scoped values
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportJSON renders the parsed resume, or the failure record, as two-space
// indented JSON
func ExportJSON(result models.ParseResult) (*Artifact, error) {
	if result.Resume == nil && result.Failure == nil {
		return nil, fmt.Errorf("%w: no parsed data", ErrEmpty)
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logging.GetGlobalLogger().Error("Failed to render JSON export", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	return &Artifact{
		Filename:    JSONFilename,
		ContentType: JSONContentType,
		Body:        append(body, '\n'),
	}, nil
}

// ExportText returns the extracted text unchanged as a flat text file
func ExportText(text string) *Artifact {
	return &Artifact{
		Filename:    TextFilename,
		ContentType: TextContentType,
		Body:        []byte(text),
	}
}

// ExportBundle builds the backend response envelope for one pipeline outcome
func ExportBundle(outcome *pipeline.Outcome, requestID string) *models.ParseResponse {
	return &models.ParseResponse{
		Success:        outcome.Result.IsSuccess(),
		Filename:       outcome.Document.Filename,
		Format:         outcome.Document.Format,
		ExtractedText:  outcome.Document.Text,
		ParsedData:     outcome.Result,
		Provider:       outcome.Provider,
		ProcessingTime: outcome.Duration,
		RequestID:      requestID,
	}
}

// WithFilename renames the artifact, keeping its extension. Directory parts
// of name are ignored.
func (a *Artifact) WithFilename(name string) *Artifact {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return a
	}

	ext := filepath.Ext(a.Filename)
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}

	renamed := *a
	renamed.Filename = name
	return &renamed
}

// ContentDisposition returns the attachment header value for the artifact
func (a *Artifact) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", a.Filename)
}
