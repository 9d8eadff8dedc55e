package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/api/middleware"
	"resume-parser/internal/config"
	"resume-parser/internal/exporter"
	"resume-parser/internal/logging"
	"resume-parser/internal/pipeline"
	"resume-parser/internal/web"
	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

// WebHandlers serves the browser pages. Every page is built from the
// current request only.
type WebHandlers struct {
	config   *config.Config
	pipeline *pipeline.Pipeline
	model    ModelStatus
}

// NewWebHandlers creates the page handlers
func NewWebHandlers(cfg *config.Config, p *pipeline.Pipeline, model ModelStatus) *WebHandlers {
	return &WebHandlers{config: cfg, pipeline: p, model: model}
}

// Index renders the upload form
func (h *WebHandlers) Index(c echo.Context) error {
	return c.Render(http.StatusOK, web.IndexPage, h.indexData("", ""))
}

// Parse runs the pipeline on the uploaded file, or on the pasted text when
// no file was chosen, and renders the result page
func (h *WebHandlers) Parse(c echo.Context) error {
	requestID := middleware.GetRequestID(c)
	ctx := c.Request().Context()

	var (
		outcome *pipeline.Outcome
		err     error
	)

	text := c.FormValue("text")
	fh, fileErr := c.FormFile("file")
	if fileErr == nil && fh.Filename != "" {
		var data []byte
		data, err = readUpload(fh, h.config.Extraction.MaxFileSize)
		if err == nil {
			outcome, err = h.pipeline.ParseFile(ctx, fh.Filename, fh.Header.Get(echo.HeaderContentType), data)
		}
	} else {
		err = checkText(h.config, text)
		if err == nil {
			outcome, err = h.pipeline.ParseText(ctx, text)
		}
	}

	if err != nil {
		custom := classifyError(err)
		logging.LogWithRequestID(requestID).Warn("Web parse failed", map[string]interface{}{
			"status": custom.Code,
			"error":  err.Error(),
		})
		return c.Render(custom.Code, web.IndexPage, h.indexData(custom.Message, text))
	}

	data, err := web.NewResultData(exporter.ExportBundle(outcome, requestID), h.config.Web.PreviewChars)
	if err != nil {
		return respondError(c, requestID, err)
	}
	return c.Render(http.StatusOK, web.ResultPage, data)
}

// DownloadJSON returns the posted parsed_data as an indented JSON attachment
func (h *WebHandlers) DownloadJSON(c echo.Context) error {
	requestID := middleware.GetRequestID(c)

	var result models.ParseResult
	if err := json.Unmarshal([]byte(c.FormValue("parsed_data")), &result); err != nil {
		return respondError(c, requestID, utils.NewValidationError("parsed_data must be JSON"))
	}

	artifact, err := exporter.ExportJSON(result)
	if err != nil {
		return respondError(c, requestID, err)
	}
	return sendArtifact(c, artifact)
}

// DownloadText returns the posted text as a flat text attachment
func (h *WebHandlers) DownloadText(c echo.Context) error {
	return sendArtifact(c, exporter.ExportText(c.FormValue("text")))
}

func (h *WebHandlers) indexData(errMsg, text string) *web.IndexData {
	return &web.IndexData{
		Error:       errMsg,
		Text:        text,
		MaxFileSize: fmt.Sprintf("%d MiB", h.config.Extraction.MaxFileSize>>20),
		Provider:    h.model.GetProviderName(),
		ModelReady:  h.model.IsHealthy(),
	}
}
