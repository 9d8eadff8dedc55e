package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/extractor"
	"resume-parser/internal/llm"
	"resume-parser/internal/llm/processors"
	"resume-parser/pkg/models"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeGenerator) GetProviderName() string { return "fake" }

func docxWith(t *testing.T, paragraphs ...string) []byte {
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

func TestParseFile_Success(t *testing.T) {
	gen := &fakeGenerator{reply: "```json\n{\"summary\": \"Go engineer\"}\n```"}
	p := New(extractor.New(), gen)

	outcome, err := p.ParseFile(context.Background(), "resume.docx", "", docxWith(t, "Jane Doe", "Go engineer"))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nGo engineer", outcome.Document.Text)
	assert.Equal(t, models.FormatDOCX, outcome.Document.Format)
	require.True(t, outcome.Result.IsSuccess())
	assert.Equal(t, "Go engineer", *outcome.Result.Resume.Summary)
	assert.Equal(t, "fake", outcome.Provider)
	assert.Positive(t, int64(outcome.Duration))

	require.Len(t, gen.prompts, 1)
	assert.Equal(t, llm.BuildResumePrompt("Jane Doe\nGo engineer"), gen.prompts[0])
}

func TestParseFile_UnsupportedFormatSkipsModel(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}

	_, err := New(extractor.New(), gen).ParseFile(context.Background(), "resume.txt", "text/plain", []byte("Jane"))
	require.ErrorIs(t, err, extractor.ErrUnsupportedFormat)
	assert.Empty(t, gen.prompts)
}

func TestParseFile_ContentTypeFallback(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}

	outcome, err := New(extractor.New(), gen).ParseFile(context.Background(), "upload", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", docxWith(t, "Jane"))
	require.NoError(t, err)
	assert.Equal(t, models.FormatDOCX, outcome.Document.Format)
}

func TestParseFile_ExtractionFailure(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}

	_, err := New(extractor.New(), gen).ParseFile(context.Background(), "resume.pdf", "", []byte("garbage"))
	require.ErrorIs(t, err, extractor.ErrExtractionFailed)
	assert.Empty(t, gen.prompts)
}

func TestParseText_ModelErrorsPropagate(t *testing.T) {
	for _, sentinel := range []error{llm.ErrModelTimeout, llm.ErrModelUnavailable} {
		gen := &fakeGenerator{err: errors.Join(sentinel, errors.New("upstream"))}

		_, err := New(extractor.New(), gen).ParseText(context.Background(), "Jane Doe")
		require.ErrorIs(t, err, sentinel)
	}
}

func TestParseText_ParseFailureIsOutcome(t *testing.T) {
	gen := &fakeGenerator{reply: "Sorry, I cannot help with that."}

	outcome, err := New(extractor.New(), gen).ParseText(context.Background(), "  Jane Doe  ")
	require.NoError(t, err)

	assert.Equal(t, models.FormatText, outcome.Document.Format)
	assert.Equal(t, "Jane Doe", outcome.Document.Text)
	require.NotNil(t, outcome.Result.Failure)
	assert.Equal(t, processors.ReasonInvalidJSON, outcome.Result.Failure.Error)
	assert.Equal(t, "Sorry, I cannot help with that.", outcome.Result.Failure.RawResponse)
}

func TestParseText_HTMLIsReducedToText(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}

	outcome, err := New(extractor.New(), gen).ParseText(context.Background(), "<div><h1>Jane Doe</h1><p>Go engineer</p></div>")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nGo engineer", outcome.Document.Text)
	assert.NotContains(t, gen.prompts[0], "<h1>")
}

func TestParseText_EmptyTextStillPrompts(t *testing.T) {
	gen := &fakeGenerator{reply: "{}"}

	outcome, err := New(extractor.New(), gen).ParseText(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, outcome.Result.IsSuccess())
	assert.Equal(t, llm.BuildResumePrompt(""), gen.prompts[0])
}
