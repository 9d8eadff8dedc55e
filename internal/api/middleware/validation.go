package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

// RequestIDKey is the echo context key holding the request ID
const RequestIDKey = "request_id"

// multipart framing allowed on top of the file itself
const uploadOverhead = 1 << 20

// RequestValidation assigns a request ID and rejects POST bodies larger than
// the upload limit plus framing
func RequestValidation(maxFileSize int64) echo.MiddlewareFunc {
	limit := maxFileSize + uploadOverhead
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Keep a caller supplied ID so logs line up across services
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" || len(requestID) > 128 {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			if c.Request().Method == http.MethodPost && c.Request().ContentLength > limit {
				return writeError(c, utils.NewPayloadTooLargeError(fmt.Sprintf("limit is %d bytes", maxFileSize)))
			}

			return next(c)
		}
	}
}

func writeError(c echo.Context, custom *utils.CustomError) error {
	return c.JSON(custom.Code, models.ErrorResponse{
		Error:     custom.Kind,
		Message:   custom.Message,
		Detail:    custom.Detail,
		RequestID: GetRequestID(c),
		Timestamp: time.Now(),
	})
}

// GetRequestID returns the ID assigned by RequestValidation, or a fresh one
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
