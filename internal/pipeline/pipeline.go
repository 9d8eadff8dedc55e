package pipeline

import (
	"context"
	"strings"
	"time"

	"resume-parser/internal/extractor"
	"resume-parser/internal/llm"
	"resume-parser/internal/llm/processors"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
	"resume-parser/pkg/models"
)

// Generator is the model client the pipeline calls once per request
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GetProviderName() string
}

// Outcome is everything one parse produced. A ParseFailure in Result is a
// successful outcome; only extraction and model errors are returned as errors.
type Outcome struct {
	Document *models.ExtractedDocument
	Result   models.ParseResult
	Provider string
	Duration time.Duration
}

// Pipeline runs extract, prompt, generate and normalize for a single request
type Pipeline struct {
	extractor *extractor.Extractor
	generator Generator
	cleaner   *processors.HTMLCleaner
	logger    types.Logger
}

// New creates a pipeline around an extractor and a model client
func New(ext *extractor.Extractor, generator Generator) *Pipeline {
	return &Pipeline{
		extractor: ext,
		generator: generator,
		cleaner:   processors.NewHTMLCleaner(),
		logger:    logging.GetGlobalLogger(),
	}
}

// ParseFile extracts text from an uploaded document and parses it. The format
// is checked before any byte of data is read.
func (p *Pipeline) ParseFile(ctx context.Context, filename, contentType string, data []byte) (*Outcome, error) {
	start := time.Now()

	format, err := extractor.DetectFormat(filename, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := p.extractor.ExtractFormat(ctx, format, filename, data)
	if err != nil {
		return nil, err
	}

	return p.parse(ctx, doc, start)
}

// ParseText parses pasted resume text. Pasted HTML is reduced to its visible text.
func (p *Pipeline) ParseText(ctx context.Context, text string) (*Outcome, error) {
	start := time.Now()
	size := len(text)

	if p.cleaner.IsHTML(text) {
		plain, err := p.cleaner.ToPlainText(text)
		if err == nil {
			p.logger.Debug("Pasted HTML converted to text", map[string]interface{}{
				"html_length": size,
				"text_length": len(plain),
			})
			text = plain
		}
	}

	doc := &models.ExtractedDocument{
		Format: models.FormatText,
		Size:   size,
		Text:   strings.TrimSpace(text),
	}
	return p.parse(ctx, doc, start)
}

func (p *Pipeline) parse(ctx context.Context, doc *models.ExtractedDocument, start time.Time) (*Outcome, error) {
	raw, err := p.generator.Generate(ctx, llm.BuildResumePrompt(doc.Text))
	if err != nil {
		return nil, err
	}

	result := processors.Normalize(raw)
	outcome := &Outcome{
		Document: doc,
		Result:   result,
		Provider: p.generator.GetProviderName(),
		Duration: time.Since(start),
	}

	fields := map[string]interface{}{
		"format":          string(doc.Format),
		"text_length":     len(doc.Text),
		"provider":        outcome.Provider,
		"processing_time": outcome.Duration.String(),
	}
	if result.IsSuccess() {
		p.logger.Info("Resume parsed", fields)
	} else {
		fields["reason"] = result.Failure.Error
		fields["response_length"] = len(result.Failure.RawResponse)
		p.logger.Warn("Model response could not be parsed", fields)
	}
	return outcome, nil
}
