package models

import "time"

// ParseResponse is returned by both the upload and the text parsing endpoints
type ParseResponse struct {
	Success        bool           `json:"success"`
	Filename       string         `json:"filename,omitempty"`
	Format         DocumentFormat `json:"format"`
	ExtractedText  string         `json:"extracted_text"`
	ParsedData     ParseResult    `json:"parsed_data"`
	Provider       string         `json:"provider"`
	ProcessingTime time.Duration  `json:"processing_time"`
	RequestID      string         `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
