package models

// DocumentFormat is the declared format of an uploaded resume
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	// FormatText marks pasted text that skipped extraction
	FormatText DocumentFormat = "text"
)

// ExtractedDocument holds the plain text pulled out of one upload. It lives
// for a single request and is never stored.
type ExtractedDocument struct {
	Filename string         `json:"filename,omitempty"`
	Format   DocumentFormat `json:"format"`
	Size     int            `json:"size"`
	Text     string         `json:"text"`
}
