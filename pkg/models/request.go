package models

// ParseTextRequest represents the request payload for parsing pasted resume text
type ParseTextRequest struct {
	Text string `json:"text" validate:"required,resume_text"`
}

// ExportJSONRequest carries a result previously returned by the API so it can
// be downloaded as a file
type ExportJSONRequest struct {
	ParsedData *ParseResult `json:"parsed_data" validate:"required"`
	Filename   string       `json:"filename,omitempty" validate:"omitempty,export_filename"`
}

// ExportTextRequest carries extracted text to be downloaded as a flat file
type ExportTextRequest struct {
	Text     string `json:"text" validate:"required"`
	Filename string `json:"filename,omitempty" validate:"omitempty,export_filename"`
}
