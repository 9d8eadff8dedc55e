package routes

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/config"
	"resume-parser/internal/extractor"
	"resume-parser/internal/llm"
	"resume-parser/internal/pipeline"
	"resume-parser/internal/ratelimit"
	"resume-parser/pkg/models"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeGenerator) GetProviderName() string { return "fake" }

type fakeModel struct{ healthy bool }

func (m fakeModel) IsHealthy() bool         { return m.healthy }
func (m fakeModel) GetProviderName() string { return "fake" }

type recheckingModel struct {
	healthy bool
	checkOK bool
	checks  int
}

func (m *recheckingModel) IsHealthy() bool         { return m.healthy }
func (m *recheckingModel) GetProviderName() string { return "fake" }

func (m *recheckingModel) CheckHealth(ctx context.Context) error {
	m.checks++
	m.healthy = m.checkOK
	if !m.checkOK {
		return errors.New("unreachable")
	}
	return nil
}

type testServer struct {
	echo *echo.Echo
	gen  *fakeGenerator
}

func newTestServer(t *testing.T, gen *fakeGenerator, configure func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	if configure != nil {
		configure(cfg)
	}

	deps := Dependencies{
		Pipeline: pipeline.New(extractor.New(), gen),
		Model:    fakeModel{healthy: true},
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewMemoryLimiter(cfg)
		t.Cleanup(limiter.Stop)
		deps.Limiter = limiter
	}

	e := echo.New()
	require.NoError(t, SetupRoutes(e, cfg, deps))
	return &testServer{echo: e, gen: gen}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestUpload_Success(t *testing.T) {
	for _, path := range []string{"/upload-resume", "/api/v1/resume/upload"} {
		srv := newTestServer(t, &fakeGenerator{reply: "```json\n{\"summary\": \"Go engineer\"}\n```"}, nil)

		rec := srv.do(uploadRequest(t, path, "jane.docx", docxBytes(t, "Jane Doe", "", "Go engineer")))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

		var resp struct {
			Success       bool            `json:"success"`
			Filename      string          `json:"filename"`
			Format        string          `json:"format"`
			ExtractedText string          `json:"extracted_text"`
			ParsedData    json.RawMessage `json:"parsed_data"`
			Provider      string          `json:"provider"`
			RequestID     string          `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "jane.docx", resp.Filename)
		assert.Equal(t, "docx", resp.Format)
		assert.Equal(t, "Jane Doe\nGo engineer", resp.ExtractedText)
		assert.Equal(t, "fake", resp.Provider)
		assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), resp.RequestID)

		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.ParsedData, &parsed))
		assert.Equal(t, "Go engineer", parsed["summary"])
	}
}

func TestUpload_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		gen      *fakeGenerator
		status   int
		kind     string
	}{
		{"unsupported format", "resume.txt", []byte("Jane"), &fakeGenerator{reply: "{}"}, http.StatusUnsupportedMediaType, "unsupported_format"},
		{"legacy doc", "resume.doc", []byte("Jane"), &fakeGenerator{reply: "{}"}, http.StatusUnsupportedMediaType, "unsupported_format"},
		{"corrupt pdf", "resume.pdf", []byte("garbage"), &fakeGenerator{reply: "{}"}, http.StatusUnprocessableEntity, "extraction_failed"},
		{"model unavailable", "resume.docx", nil, &fakeGenerator{err: errors.Join(llm.ErrModelUnavailable, errors.New("401"))}, http.StatusBadGateway, "model_unavailable"},
		{"model timeout", "resume.docx", nil, &fakeGenerator{err: llm.ErrModelTimeout}, http.StatusGatewayTimeout, "model_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if data == nil {
				data = docxBytes(t, "Jane")
			}
			srv := newTestServer(t, tt.gen, nil)

			rec := srv.do(uploadRequest(t, "/api/v1/resume/upload", tt.filename, data))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			resp := decodeError(t, rec)
			assert.Equal(t, tt.kind, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestUpload_UnsupportedFormatSkipsModel(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}
	srv := newTestServer(t, gen, nil)

	rec := srv.do(uploadRequest(t, "/upload-resume", "resume.txt", []byte("Jane")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestUpload_TooLarge(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "{}"}, func(cfg *config.Config) {
		cfg.Extraction.MaxFileSize = 64
	})

	rec := srv.do(uploadRequest(t, "/upload-resume", "resume.pdf", bytes.Repeat([]byte("x"), 65)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "request_too_large", decodeError(t, rec).Error)
}

func TestUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "{}"}, nil)

	rec := srv.do(jsonRequest("/upload-resume", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeError(t, rec).Error)
}

func TestParseText(t *testing.T) {
	gen := &fakeGenerator{reply: "not json"}
	srv := newTestServer(t, gen, nil)

	rec := srv.do(jsonRequest("/parse-text", `{"text": "Jane Doe\nGo engineer"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "text", resp["format"])
	assert.Equal(t, map[string]interface{}{"error": "JSON parsing failed", "raw_response": "not json"}, resp["parsed_data"])
}

func TestParseText_Validation(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "{}"}, func(cfg *config.Config) {
		cfg.Extraction.MaxTextSize = 10
	})

	rec := srv.do(jsonRequest("/api/v1/resume/parse-text", `{"text": "   "}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeError(t, rec).Error)

	rec = srv.do(jsonRequest("/api/v1/resume/parse-text", `{"text": "this text is too long"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = srv.do(jsonRequest("/api/v1/resume/parse-text", `{"text": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)

	assert.Zero(t, srv.gen.calls)
}

func TestExportJSON(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{}, nil)

	envelope := `{"success": true, "extracted_text": "Jane", "parsed_data": {"summary": "Go engineer"}, "filename": "jane_doe"}`
	rec := srv.do(jsonRequest("/api/v1/resume/export/json", envelope))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, `attachment; filename="jane_doe.json"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/json"))
	assert.Contains(t, rec.Body.String(), "\n  \"summary\": \"Go engineer\",\n")

	rec = srv.do(jsonRequest("/api/v1/resume/export/json", `{"parsed_data": null}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(jsonRequest("/api/v1/resume/export/json", `{"parsed_data": {}, "filename": "../x"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportText(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{}, nil)

	rec := srv.do(jsonRequest("/api/v1/resume/export/text", `{"text": "Jane Doe\n--- Page 2 ---"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="extracted_text.txt"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "Jane Doe\n--- Page 2 ---", rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	cfg := config.Default()
	e := echo.New()
	require.NoError(t, SetupRoutes(e, cfg, Dependencies{
		Pipeline: pipeline.New(extractor.New(), &fakeGenerator{}),
		Model:    fakeModel{healthy: false},
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unavailable", health.Checks["llm"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"alive"`)
}

func TestReadinessRechecksModel(t *testing.T) {
	model := &recheckingModel{}
	e := echo.New()
	require.NoError(t, SetupRoutes(e, config.Default(), Dependencies{
		Pipeline: pipeline.New(extractor.New(), &fakeGenerator{}),
		Model:    model,
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, model.checks)

	model.checkOK = true
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
	assert.Equal(t, 2, model.checks)

	// Healthy models are not checked again
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, model.checks)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "{}"}, func(cfg *config.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
	})

	rec := srv.do(jsonRequest("/parse-text", `{"text": "Jane"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(jsonRequest("/parse-text", `{"text": "Jane"}`))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, rec).Error)

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(echo.HeaderXRequestID, "trace-123")
	rec := srv.do(req)
	assert.Equal(t, "trace-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestWebPages(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: `{"personal_info": {"name": "Jane Doe"}, "summary": "Go engineer"}`}, nil)

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#upload-form").Length())

	rec = srv.do(formRequest("/parse", url.Values{"text": {"Jane Doe\nGo engineer"}}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc, err = goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Go engineer", doc.Find("#summary").Text())

	posted := doc.Find(`#download-json input[name="parsed_data"]`).AttrOr("value", "")
	rec = srv.do(formRequest("/download/json", url.Values{"parsed_data": {posted}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="parsed_resume.json"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.JSONEq(t, posted, rec.Body.String())

	text := doc.Find(`#download-text input[name="text"]`).AttrOr("value", "")
	rec = srv.do(formRequest("/download/text", url.Values{"text": {text}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe\nGo engineer", rec.Body.String())
}

func TestWebParse_ErrorRerendersForm(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "{}"}, nil)

	rec := srv.do(uploadRequest(t, "/parse", "resume.txt", []byte("Jane")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("#error").Text(), "Unsupported file format")

	rec = srv.do(formRequest("/download/json", url.Values{"parsed_data": {"not json"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
