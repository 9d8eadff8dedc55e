package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ExportFilenamePattern allows plain file names without directory parts
var ExportFilenamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]{0,99}$`)

// ValidateResumeText rejects text that is blank after trimming
func ValidateResumeText(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateExportFilename ensures a download name is a safe token
func ValidateExportFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return ExportFilenamePattern.MatchString(name) && !strings.Contains(name, "..")
}

// RegisterResumeValidators registers all resume-related custom validators
func RegisterResumeValidators(v *validator.Validate) {
	v.RegisterValidation("resume_text", ValidateResumeText)
	v.RegisterValidation("export_filename", ValidateExportFilename)
}

// New returns a validator with the resume validators registered
func New() *validator.Validate {
	v := validator.New()
	RegisterResumeValidators(v)
	return v
}
