package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
)

type cannedProvider struct {
	text string
	err  error
}

func (p *cannedProvider) GenerateContent(context.Context, *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &interfaces.ContentResponse{Text: p.text, Provider: "gemini"}, nil
}

func (p *cannedProvider) Close() error { return nil }

func newTestGenerator(provider interfaces.ContentProvider) *Generator {
	g := NewGenerator(provider, common.NewDefaultConfig(), arbor.NewLogger())
	g.modelList = []string{"gemini-2.0-flash"}
	return g
}

func TestGenerateMarksRecordsSynthetic(t *testing.T) {
	provider := &cannedProvider{text: "```json\n" + `[
		{"job_title": "Backend Engineer", "company_name": "Nimbus Labs", "location": "Pune", "experience_min": 2, "experience_max": 5},
		{"job_title": "Platform Engineer", "company_name": "Vertex Systems", "location": "Remote"}
	]` + "\n```"}

	records := newTestGenerator(provider).Generate(context.Background(), "backend engineer", "Pune")

	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "Synthetic", r.Source)
		assert.Regexp(t, `^job_y_[0-9a-f]{8}$`, r.ID)
		assert.Contains(t, r.ApplicationURL, "jobs.example.invalid/",
			"synthetic links must be unmistakably fake")
	}
	assert.Equal(t, "https://jobs.example.invalid/nimbus-labs", records[0].ApplicationURL)
}

func TestGenerateDefaultsMissingFieldsFromRequest(t *testing.T) {
	provider := &cannedProvider{text: `[
		{"job_title": "", "company_name": "Nimbus Labs", "location": ""},
		{"job_title": "Engineer", "company_name": "Acme", "location": "Remote"}
	]`}

	records := newTestGenerator(provider).Generate(context.Background(), "backend engineer", "Pune")

	require.Len(t, records, 2, "missing title and location come from the request, not a drop")
	assert.Equal(t, "backend engineer", records[0].JobTitle)
	assert.Equal(t, "Pune", records[0].Location)
	assert.Equal(t, "Remote", records[1].Location)
}

func TestGenerateDropsUnusableRecords(t *testing.T) {
	provider := &cannedProvider{text: `[
		{"job_title": "Engineer", "company_name": ""},
		{"job_title": "Engineer", "company_name": "Acme"}
	]`}

	records := newTestGenerator(provider).Generate(context.Background(), "engineer", "Pune")
	require.Len(t, records, 1, "a record with no company cannot be defaulted")
	assert.Equal(t, "Acme", records[0].CompanyName)
}

func TestGenerateFailsSilently(t *testing.T) {
	assert.Empty(t, newTestGenerator(&cannedProvider{err: errors.New("boom")}).
		Generate(context.Background(), "engineer", "Pune"))

	assert.Empty(t, newTestGenerator(&cannedProvider{text: "not json"}).
		Generate(context.Background(), "engineer", "Pune"))
}
