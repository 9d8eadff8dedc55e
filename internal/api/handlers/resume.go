package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/api/middleware"
	"resume-parser/internal/api/validation"
	"resume-parser/internal/config"
	"resume-parser/internal/exporter"
	"resume-parser/internal/extractor"
	"resume-parser/internal/logging"
	"resume-parser/internal/pipeline"
	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

var resumeValidator = validation.New()

// UploadResumeHandler handles POST /upload-resume and /api/v1/resume/upload
func UploadResumeHandler(cfg *config.Config, p *pipeline.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		fh, err := c.FormFile("file")
		if err != nil {
			return respondError(c, requestID, utils.NewValidationError(`multipart field "file" is required`))
		}

		logger.Info("Processing resume upload", map[string]interface{}{
			"filename": fh.Filename,
			"size":     fh.Size,
		})

		data, err := readUpload(fh, cfg.Extraction.MaxFileSize)
		if err != nil {
			return respondError(c, requestID, err)
		}

		outcome, err := p.ParseFile(c.Request().Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), data)
		if err != nil {
			return respondError(c, requestID, err)
		}

		return c.JSON(http.StatusOK, exporter.ExportBundle(outcome, requestID))
	}
}

// ParseTextHandler handles POST /parse-text and /api/v1/resume/parse-text
func ParseTextHandler(cfg *config.Config, p *pipeline.Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)
		logger := logging.LogWithRequestID(requestID)

		var req models.ParseTextRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, utils.NewBadRequestError("Invalid request body"))
		}
		if err := checkText(cfg, req.Text); err != nil {
			return respondError(c, requestID, err)
		}

		logger.Info("Processing resume text", map[string]interface{}{
			"text_length": len(req.Text),
		})

		outcome, err := p.ParseText(c.Request().Context(), req.Text)
		if err != nil {
			return respondError(c, requestID, err)
		}

		return c.JSON(http.StatusOK, exporter.ExportBundle(outcome, requestID))
	}
}

// readUpload checks the declared format and size, then reads the file. The
// format check happens before any byte is read.
func readUpload(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if _, err := extractor.DetectFormat(fh.Filename, fh.Header.Get(echo.HeaderContentType)); err != nil {
		return nil, err
	}
	if fh.Size > maxSize {
		return nil, utils.NewPayloadTooLargeError(fmt.Sprintf("%s is %d bytes, limit is %d", fh.Filename, fh.Size, maxSize))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, utils.NewBadRequestError("Failed to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, utils.NewBadRequestError("Failed to read uploaded file")
	}
	if int64(len(data)) > maxSize {
		return nil, utils.NewPayloadTooLargeError(fmt.Sprintf("limit is %d bytes", maxSize))
	}
	return data, nil
}

func checkText(cfg *config.Config, text string) error {
	if err := resumeValidator.Struct(&models.ParseTextRequest{Text: text}); err != nil {
		return utils.NewValidationError("text must not be empty")
	}
	if cfg.Extraction.MaxTextSize > 0 && len([]rune(text)) > cfg.Extraction.MaxTextSize {
		return utils.NewPayloadTooLargeError(fmt.Sprintf("text is limited to %d characters", cfg.Extraction.MaxTextSize))
	}
	return nil
}
