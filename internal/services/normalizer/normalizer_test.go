package normalizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// echoProvider normalizes each batch mechanically so tests can assert
// batching behavior without a live model
type echoProvider struct {
	calls     int
	failCalls map[int]error // 1-based call index -> error to return
	wrapFence bool
}

func (p *echoProvider) GenerateContent(_ context.Context, req *interfaces.ContentRequest) (*interfaces.ContentResponse, error) {
	p.calls++
	if err, ok := p.failCalls[p.calls]; ok {
		return nil, err
	}

	// Recover the batch from the prompt payload
	content := req.Messages[0].Content
	start := 0
	for i := range content {
		if content[i] == '[' {
			start = i
			break
		}
	}
	var batch []models.RawJobRecord
	if err := json.Unmarshal([]byte(content[start:]), &batch); err != nil {
		return nil, fmt.Errorf("test provider could not decode batch: %w", err)
	}

	out := make([]models.NormalizedJobRecord, len(batch))
	for i, r := range batch {
		out[i] = models.NormalizedJobRecord{
			JobTitle:       r.Title,
			CompanyName:    r.Company,
			Location:       r.Location,
			Source:         r.SourcePlatform,
			ApplicationURL: r.ApplicationURL,
		}
	}

	data, _ := json.Marshal(out)
	text := string(data)
	if p.wrapFence {
		text = "```json\n" + text + "\n```"
	}
	return &interfaces.ContentResponse{Text: text, Provider: "gemini", Model: req.Model}, nil
}

func (p *echoProvider) Close() error { return nil }

func newTestService(provider interfaces.ContentProvider) *Service {
	svc := NewService(provider, common.NewDefaultConfig(), arbor.NewLogger())
	svc.modelList = []string{"gemini-2.0-flash"}
	svc.retryCfg.ModelSwitchDelay = 0
	return svc
}

func rawRecords(n int) []models.RawJobRecord {
	records := make([]models.RawJobRecord, n)
	for i := range records {
		records[i] = models.RawJobRecord{
			Title:          fmt.Sprintf("Engineer %d", i),
			Company:        "Acme",
			ApplicationURL: fmt.Sprintf("https://example.com/%d", i),
			SourcePlatform: "LinkedIn",
		}
	}
	return records
}

func TestNormalizeBatchesOfTen(t *testing.T) {
	provider := &echoProvider{}
	svc := newTestService(provider)

	normalized, errs := svc.Normalize(context.Background(), rawRecords(23))

	assert.Empty(t, errs)
	assert.Len(t, normalized, 23)
	assert.Equal(t, 3, provider.calls, "23 records means batches of 10, 10 and 3")
}

func TestNormalizeAssignsUniqueIDs(t *testing.T) {
	svc := newTestService(&echoProvider{})

	normalized, errs := svc.Normalize(context.Background(), rawRecords(12))
	require.Empty(t, errs)

	seen := make(map[string]bool)
	for _, r := range normalized {
		assert.Regexp(t, `^job_y_[0-9a-f]{8}$`, r.ID)
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestNormalizeFailingBatchIsIsolated(t *testing.T) {
	provider := &echoProvider{failCalls: map[int]error{2: errors.New("model exploded")}}
	svc := newTestService(provider)

	normalized, errs := svc.Normalize(context.Background(), rawRecords(25))

	assert.Len(t, normalized, 15, "batches 1 and 3 survive batch 2 failing")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "batch 10-19")
}

func TestNormalizeToleratesMarkdownFences(t *testing.T) {
	svc := newTestService(&echoProvider{wrapFence: true})

	normalized, errs := svc.Normalize(context.Background(), rawRecords(3))
	assert.Empty(t, errs)
	assert.Len(t, normalized, 3)
}

func TestNormalizeAppliesValidationDefaults(t *testing.T) {
	svc := newTestService(&echoProvider{})

	normalized, errs := svc.Normalize(context.Background(), rawRecords(1))
	require.Empty(t, errs)
	require.Len(t, normalized, 1)

	assert.Equal(t, "Not disclosed", normalized[0].Salary)
	assert.Equal(t, "Recently", normalized[0].Posted)
	assert.Equal(t, models.StatusNotApplied, normalized[0].Status)
}

func TestNormalizeEmptyInput(t *testing.T) {
	provider := &echoProvider{}
	svc := newTestService(provider)

	normalized, errs := svc.Normalize(context.Background(), nil)
	assert.Empty(t, normalized)
	assert.Empty(t, errs)
	assert.Zero(t, provider.calls)
}

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"```\n[]\n```", "[]"},
		{"[]", "[]"},
		{"  []  ", "[]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripMarkdownFences(tt.in))
	}
}
