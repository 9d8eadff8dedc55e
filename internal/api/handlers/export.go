package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/api/middleware"
	"resume-parser/internal/exporter"
	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

// ExportJSONHandler handles POST /api/v1/resume/export/json. It accepts the
// full parse response or just {"parsed_data": ...}.
func ExportJSONHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		var req models.ExportJSONRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, utils.NewBadRequestError("Invalid request body"))
		}
		if err := resumeValidator.Struct(&req); err != nil {
			return respondError(c, requestID, utils.NewValidationError(err.Error()))
		}

		artifact, err := exporter.ExportJSON(*req.ParsedData)
		if err != nil {
			return respondError(c, requestID, err)
		}
		if req.Filename != "" {
			artifact = artifact.WithFilename(req.Filename)
		}
		return sendArtifact(c, artifact)
	}
}

// ExportTextHandler handles POST /api/v1/resume/export/text
func ExportTextHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.GetRequestID(c)

		var req models.ExportTextRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, requestID, utils.NewBadRequestError("Invalid request body"))
		}
		if err := resumeValidator.Struct(&req); err != nil {
			return respondError(c, requestID, utils.NewValidationError(err.Error()))
		}

		artifact := exporter.ExportText(req.Text)
		if req.Filename != "" {
			artifact = artifact.WithFilename(req.Filename)
		}
		return sendArtifact(c, artifact)
	}
}

func sendArtifact(c echo.Context, artifact *exporter.Artifact) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, artifact.ContentDisposition())
	return c.Blob(http.StatusOK, artifact.ContentType, artifact.Body)
}
