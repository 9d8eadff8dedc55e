package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// PersonalInfo represents the contact block of a resume
type PersonalInfo struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Portfolio *string `json:"portfolio"`
}

// Experience represents a single job held by the candidate
type Experience struct {
	Company      *string  `json:"company"`
	Position     *string  `json:"position"`
	Duration     *string  `json:"duration"` // free text, e.g. "Jan 2020 - Present"
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
}

// Education represents an educational qualification
type Education struct {
	Degree      *string  `json:"degree"`
	Institution *string  `json:"institution"`
	Year        *string  `json:"year"`
	GPA         *string  `json:"gpa"`
	Coursework  []string `json:"coursework"`
}

// Skills groups skills into fixed categories
type Skills struct {
	Technical   []string `json:"technical"`
	Programming []string `json:"programming"`
	Tools       []string `json:"tools"`
	SoftSkills  []string `json:"soft_skills"`
	Languages   []string `json:"languages"`
}

// Certification represents a professional certification
type Certification struct {
	Name   *string `json:"name"`
	Issuer *string `json:"issuer"`
	Date   *string `json:"date"`
}

// UnmarshalJSON accepts both the object form and a bare string, which models
// sometimes emit for certifications. A bare string becomes the name.
func (c *Certification) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*c = Certification{Name: &name}
		return nil
	}

	type certificationAlias Certification // avoid recursion
	var alias certificationAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*c = Certification(alias)
	return nil
}

// Project represents a personal or professional project
type Project struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
	Duration     *string  `json:"duration"`
	Achievements *string  `json:"achievements"`
}

// Additional holds the miscellaneous resume sections
type Additional struct {
	Awards       []string `json:"awards"`
	Publications []string `json:"publications"`
	Volunteer    []string `json:"volunteer"`
	Interests    []string `json:"interests"`
}

// ParsedResume is the structured record produced from a model response.
// Every field is optional: a nil pointer or nil slice means the model did not
// report it.
type ParsedResume struct {
	PersonalInfo   *PersonalInfo   `json:"personal_info"`
	Summary        *string         `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         *Skills         `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Additional     *Additional     `json:"additional"`
}

// ParseFailure is returned instead of a ParsedResume when the model output
// could not be parsed. RawResponse holds the text exactly as it was parsed.
type ParseFailure struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response"`
}

// ParseResult holds either a ParsedResume or a ParseFailure, never both
type ParseResult struct {
	Resume  *ParsedResume
	Failure *ParseFailure
}

// NewParseSuccess wraps a parsed resume
func NewParseSuccess(resume *ParsedResume) ParseResult {
	return ParseResult{Resume: resume}
}

// NewParseFailure builds a failed result carrying the unparsed text
func NewParseFailure(reason, raw string) ParseResult {
	return ParseResult{Failure: &ParseFailure{Error: reason, RawResponse: raw}}
}

// IsSuccess reports whether the result carries a parsed resume
func (r ParseResult) IsSuccess() bool {
	return r.Resume != nil && r.Failure == nil
}

// MarshalJSON emits the resume object on success and the failure object otherwise
func (r ParseResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Resume != nil && r.Failure != nil:
		return nil, errors.New("parse result holds both a resume and a failure")
	case r.Resume != nil:
		return json.Marshal(r.Resume)
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes either shape. An object carrying an "error" key is a failure.
func (r *ParseResult) UnmarshalJSON(data []byte) error {
	*r = ParseResult{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if _, ok := probe["error"]; ok {
		var failure ParseFailure
		if err := json.Unmarshal(data, &failure); err != nil {
			return err
		}
		r.Failure = &failure
		return nil
	}

	var resume ParsedResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return err
	}
	r.Resume = &resume
	return nil
}
