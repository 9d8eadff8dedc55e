package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/exporter"
	"resume-parser/internal/extractor"
	"resume-parser/internal/llm"
	"resume-parser/internal/logging"
	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

// classifyError maps pipeline and export errors to their HTTP shape
func classifyError(err error) *utils.CustomError {
	var custom *utils.CustomError
	switch {
	case errors.As(err, &custom):
		return custom
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return utils.NewUnsupportedFormatError(err.Error())
	case errors.Is(err, extractor.ErrExtractionFailed):
		return utils.NewExtractionError(err.Error())
	case errors.Is(err, llm.ErrModelTimeout), errors.Is(err, context.DeadlineExceeded):
		return utils.NewLLMTimeoutError(err.Error())
	case errors.Is(err, llm.ErrModelUnavailable):
		return utils.NewLLMError(err.Error())
	case errors.Is(err, exporter.ErrEmpty):
		return utils.NewValidationError(err.Error())
	case errors.Is(err, exporter.ErrRender):
		return utils.NewInternalServerError("Failed to render export")
	default:
		return utils.NewInternalServerError("Internal server error")
	}
}

// respondError writes the JSON error envelope for err
func respondError(c echo.Context, requestID string, err error) error {
	custom := classifyError(err)

	fields := map[string]interface{}{
		"request_id": requestID,
		"status":     custom.Code,
		"error":      err.Error(),
	}
	if custom.Code >= http.StatusInternalServerError {
		logging.GetGlobalLogger().Error(custom.Message, fields)
	} else {
		logging.GetGlobalLogger().Warn(custom.Message, fields)
	}

	return c.JSON(custom.Code, models.ErrorResponse{
		Error:     custom.Kind,
		Message:   custom.Message,
		Detail:    custom.Detail,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
