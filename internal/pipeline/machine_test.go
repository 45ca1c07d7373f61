package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/models"
)

type fakeExtractor struct {
	records []models.RawJobRecord
	notes   []string
}

func (f *fakeExtractor) Name() string { return "fake" }
func (f *fakeExtractor) Extract(context.Context, string, string) ([]models.RawJobRecord, []string) {
	return f.records, f.notes
}

// scriptedNormalizer returns one scripted result per call
type scriptedNormalizer struct {
	calls   int
	results []struct {
		records []models.NormalizedJobRecord
		errs    []string
	}
}

func (s *scriptedNormalizer) Normalize(context.Context, []models.RawJobRecord) ([]models.NormalizedJobRecord, []string) {
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i].records, s.results[i].errs
}

func passOnce(records []models.NormalizedJobRecord, errs []string) *scriptedNormalizer {
	return &scriptedNormalizer{results: []struct {
		records []models.NormalizedJobRecord
		errs    []string
	}{{records, errs}}}
}

var (
	rawOne        = []models.RawJobRecord{{Title: "Engineer", Company: "Acme"}}
	normalizedOne = []models.NormalizedJobRecord{{ID: "job_y_00000001", JobTitle: "Engineer", CompanyName: "Acme"}}
)

func TestRunHappyPath(t *testing.T) {
	machine := NewMachine(passOnce(normalizedOne, nil), arbor.NewLogger())

	state := machine.Run(context.Background(), &fakeExtractor{records: rawOne}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageSucceeded, state.Stage)
	assert.True(t, state.HasRecords())
	assert.Zero(t, state.RetryCount)
	assert.Empty(t, state.ErrorTrace)
}

func TestRunUnknownSourceIsCleanEmpty(t *testing.T) {
	machine := NewMachine(passOnce(nil, nil), arbor.NewLogger())

	state := machine.Run(context.Background(), nil, "monster", "engineer", "Pune")

	assert.Equal(t, models.StageFailed, state.Stage)
	assert.False(t, state.HasRecords())
	assert.Empty(t, state.ErrorTrace, "unknown source is not an error")
}

func TestRunEmptyExtractionSkipsNormalization(t *testing.T) {
	normalizer := passOnce(normalizedOne, nil)
	machine := NewMachine(normalizer, arbor.NewLogger())

	state := machine.Run(context.Background(),
		&fakeExtractor{notes: []string{"source unreachable"}}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageFailed, state.Stage)
	assert.Zero(t, normalizer.calls, "nothing to normalize")
	assert.Equal(t, []string{"source unreachable"}, state.ErrorTrace)
}

func TestRunRetriesThenSucceeds(t *testing.T) {
	normalizer := &scriptedNormalizer{results: []struct {
		records []models.NormalizedJobRecord
		errs    []string
	}{
		{nil, []string{"batch 0-9: model exploded"}},
		{nil, []string{"batch 0-9: model exploded"}},
		{normalizedOne, nil},
	}}
	machine := NewMachine(normalizer, arbor.NewLogger())

	state := machine.Run(context.Background(), &fakeExtractor{records: rawOne}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageSucceeded, state.Stage)
	assert.Equal(t, 2, state.RetryCount)
	assert.Equal(t, 3, normalizer.calls)
	assert.Len(t, state.ErrorTrace, 2, "failed attempts stay on the trace")
}

func TestRunRetryCeiling(t *testing.T) {
	normalizer := passOnce(nil, []string{"persistent failure"})
	machine := NewMachine(normalizer, arbor.NewLogger())

	state := machine.Run(context.Background(), &fakeExtractor{records: rawOne}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageFailed, state.Stage)
	assert.Equal(t, models.MaxNormalizeRetries, state.RetryCount)
	assert.Equal(t, models.MaxNormalizeRetries+1, normalizer.calls, "initial attempt plus ceiling retries")
}

func TestRunZeroRecordsZeroErrorsDoesNotRetry(t *testing.T) {
	normalizer := passOnce(nil, nil)
	machine := NewMachine(normalizer, arbor.NewLogger())

	state := machine.Run(context.Background(), &fakeExtractor{records: rawOne}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageFailed, state.Stage)
	assert.Zero(t, state.RetryCount, "a clean empty result burns no retries")
	assert.Equal(t, 1, normalizer.calls)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	machine := NewMachine(passOnce(normalizedOne, nil), arbor.NewLogger())
	state := machine.Run(ctx, &fakeExtractor{records: rawOne}, "fake", "engineer", "Pune")

	assert.Equal(t, models.StageFailed, state.Stage)
	require.NotEmpty(t, state.ErrorTrace)
	assert.Contains(t, state.ErrorTrace[0], "canceled")
}
