package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Kind    string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "invalid_request",
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "internal_error",
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "validation_failed",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewPayloadTooLargeError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestEntityTooLarge,
		Kind:    "request_too_large",
		Message: "Request body too large",
		Detail:  detail,
	}
}

func NewRateLimitedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusTooManyRequests,
		Kind:    "rate_limited",
		Message: "Too many requests",
		Detail:  detail,
	}
}

// Resume processing errors

// NewUnsupportedFormatError is returned before any extraction is attempted
func NewUnsupportedFormatError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnsupportedMediaType,
		Kind:    "unsupported_format",
		Message: "Unsupported file format. Please upload PDF or DOCX files",
		Detail:  detail,
	}
}

func NewExtractionError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    "extraction_failed",
		Message: "Text extraction failed",
		Detail:  detail,
	}
}

func NewLLMError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Kind:    "model_unavailable",
		Message: "Model is unavailable, please try again",
		Detail:  detail,
	}
}

func NewLLMTimeoutError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusGatewayTimeout,
		Kind:    "model_timeout",
		Message: "Model did not answer in time, please try again",
		Detail:  detail,
	}
}
