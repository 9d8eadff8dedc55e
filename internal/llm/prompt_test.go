package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/pkg/models"
)

func TestBuildResumePrompt_Deterministic(t *testing.T) {
	text := "Jane Doe\nSoftware Engineer at Acme"
	assert.Equal(t, BuildResumePrompt(text), BuildResumePrompt(text))
}

func TestBuildResumePrompt_Layout(t *testing.T) {
	text := "Jane Doe\nSoftware Engineer at Acme"
	prompt := BuildResumePrompt(text)

	textAt := strings.Index(prompt, text)
	categoriesAt := strings.Index(prompt, "1. Personal Information")
	schemaAt := strings.Index(prompt, resumeSchemaExample)
	nullRuleAt := strings.Index(prompt, "use null or empty array []")

	require.GreaterOrEqual(t, textAt, 0)
	require.GreaterOrEqual(t, schemaAt, 0)
	assert.Less(t, textAt, categoriesAt)
	assert.Less(t, categoriesAt, schemaAt)
	assert.Less(t, schemaAt, nullRuleAt)

	for _, category := range []string{
		"Personal Information", "Professional Summary", "Work Experience", "Education",
		"Skills", "Certifications", "Projects", "Additional Information",
	} {
		assert.Contains(t, prompt, category)
	}
}

func TestBuildResumePrompt_EmptyText(t *testing.T) {
	prompt := BuildResumePrompt("")
	assert.Contains(t, prompt, "Resume Text:\n\n\nExtract and structure")
	assert.Contains(t, prompt, resumeSchemaExample)
}

// The schema shown to the model must decode into ParsedResume with every
// key recognised, so the two cannot drift apart silently.
func TestResumeSchemaExample_MatchesModel(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(resumeSchemaExample))
	dec.DisallowUnknownFields()

	var resume models.ParsedResume
	require.NoError(t, dec.Decode(&resume))

	require.NotNil(t, resume.PersonalInfo)
	require.Len(t, resume.Experience, 1)
	require.Len(t, resume.Education, 1)
	require.NotNil(t, resume.Skills)
	require.Len(t, resume.Certifications, 1)
	require.Len(t, resume.Projects, 1)
	require.NotNil(t, resume.Additional)
}
