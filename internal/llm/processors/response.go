package processors

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"resume-parser/pkg/models"
)

// Failure reasons carried in ParseFailure.Error
const (
	ReasonInvalidJSON    = "JSON parsing failed"
	ReasonSchemaMismatch = "Response does not match the resume schema"
)

//go:embed resume.schema.json
var resumeSchemaJSON []byte

var (
	schemaOnce      sync.Once
	resumeSchema    *jsonschema.Schema
	resumeSchemaErr error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("resume.schema.json", bytes.NewReader(resumeSchemaJSON)); err != nil {
			resumeSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		resumeSchema, resumeSchemaErr = compiler.Compile("resume.schema.json")
	})
	return resumeSchema, resumeSchemaErr
}

// StripCodeFence removes a leading ``` marker with its optional language tag
// and a trailing ``` marker, then trims whitespace
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimLeftFunc(text, isLanguageTagRune)
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func isLanguageTagRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+'
}

// Normalize turns a raw model completion into a ParsedResume or a failure
// record carrying the fence-stripped text. It never returns an error.
func Normalize(raw string) models.ParseResult {
	cleaned := StripCodeFence(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return models.NewParseFailure(ReasonInvalidJSON, cleaned)
	}
	// Anything after the first value makes the document invalid JSON
	if _, err := dec.Token(); err != io.EOF {
		return models.NewParseFailure(ReasonInvalidJSON, cleaned)
	}

	// A model that reports its own failure is treated like one
	if obj, ok := payload.(map[string]interface{}); ok {
		if reason, _ := obj["error"].(string); strings.TrimSpace(reason) != "" {
			return models.NewParseFailure(reason, cleaned)
		}
	}

	schema, err := compiledSchema()
	if err != nil {
		return models.NewParseFailure(err.Error(), cleaned)
	}
	if err := schema.Validate(payload); err != nil {
		return models.NewParseFailure(ReasonSchemaMismatch, cleaned)
	}

	if obj, ok := payload.(map[string]interface{}); ok {
		flattenTextLeaves(obj)
	}

	normalized, err := json.Marshal(scalarsToText(payload))
	if err != nil {
		return models.NewParseFailure(ReasonInvalidJSON, cleaned)
	}

	var resume models.ParsedResume
	if err := json.Unmarshal(normalized, &resume); err != nil {
		return models.NewParseFailure(ReasonSchemaMismatch, cleaned)
	}
	return models.NewParseSuccess(&resume)
}

// scalarsToText renders numbers and booleans as their JSON text, since every
// resume field is textual ("year": 2020 becomes "2020")
func scalarsToText(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			t[k] = scalarsToText(child)
		}
		return t
	case []interface{}:
		for i, child := range t {
			t[i] = scalarsToText(child)
		}
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return v
	}
}

// Entry fields that are real lists and keep their array form
var listFields = map[string]bool{"technologies": true, "coursework": true}

// Top-level sections whose object items carry text fields
var entrySections = []string{"experience", "education", "projects", "certifications"}

// flattenTextLeaves renders lists and objects found where a single text is
// expected as lines of text: "description": ["a", "b"] becomes "a\nb" and
// "gpa": {"score": 3.8} becomes "score: 3.8"
func flattenTextLeaves(payload map[string]interface{}) {
	if summary, ok := payload["summary"]; ok {
		payload["summary"] = joinText(summary)
	}
	if info, ok := payload["personal_info"].(map[string]interface{}); ok {
		flattenEntry(info)
	}
	for _, section := range entrySections {
		items, _ := payload[section].([]interface{})
		for _, item := range items {
			if entry, ok := item.(map[string]interface{}); ok {
				flattenEntry(entry)
			}
		}
	}
}

func flattenEntry(entry map[string]interface{}) {
	for key, value := range entry {
		if !listFields[key] {
			entry[key] = joinText(value)
		}
	}
}

func joinText(v interface{}) interface{} {
	var lines []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if line := scalarText(item); line != "" {
				lines = append(lines, line)
			}
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if line := scalarText(t[k]); line != "" {
				lines = append(lines, k+": "+line)
			}
		}
	default:
		return v
	}

	if len(lines) == 0 {
		return nil
	}
	return strings.Join(lines, "\n")
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
