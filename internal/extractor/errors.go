package extractor

import "errors"

var (
	// ErrUnsupportedFormat is returned before any byte of the upload is read
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrExtractionFailed wraps the decoder error for a malformed document
	ErrExtractionFailed = errors.New("text extraction failed")
)
