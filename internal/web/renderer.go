package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"resume-parser/pkg/models"
	"resume-parser/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	IndexPage  = "index.html"
	ResultPage = "result.html"
)

// Renderer renders the embedded pages and implements echo.Renderer
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"value":    value,
		"join":     join,
		"hasItems": hasItems,
		"inc":      func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named page
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// IndexData feeds the upload form
type IndexData struct {
	Error       string
	Text        string
	MaxFileSize string
	Provider    string
	ModelReady  bool
}

// ResultData feeds the result page. Text and ResultJSON are posted back by
// the download forms, so nothing has to be kept on the server.
type ResultData struct {
	Filename   string
	Format     string
	Text       string
	Preview    string
	Resume     *models.ParsedResume
	Failure    *models.ParseFailure
	ResultJSON string
	Provider   string
	Duration   string
	RequestID  string
}

// NewResultData builds the page values for one parse response
func NewResultData(resp *models.ParseResponse, previewChars int) (*ResultData, error) {
	body, err := json.MarshalIndent(resp.ParsedData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render parsed data: %w", err)
	}

	return &ResultData{
		Filename:   resp.Filename,
		Format:     string(resp.Format),
		Text:       resp.ExtractedText,
		Preview:    utils.Truncate(resp.ExtractedText, previewChars),
		Resume:     resp.ParsedData.Resume,
		Failure:    resp.ParsedData.Failure,
		ResultJSON: string(body),
		Provider:   resp.Provider,
		Duration:   utils.FormatDuration(resp.ProcessingTime),
		RequestID:  resp.RequestID,
	}, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func join(items []string) string {
	var kept []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}

func hasItems(lists ...[]string) bool {
	for _, list := range lists {
		if join(list) != "" {
			return true
		}
	}
	return false
}
