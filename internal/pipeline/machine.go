package pipeline

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
)

// Normalizer converts raw records to canonical listings. Satisfied by
// the normalizer service; narrowed here so the machine can be driven by
// a fake in tests.
type Normalizer interface {
	Normalize(ctx context.Context, raw []models.RawJobRecord) ([]models.NormalizedJobRecord, []string)
}

// Machine drives one source through its extract→normalize workflow.
// Transitions are explicit: every stage handler mutates the state and
// names the next stage, and the loop runs until a terminal stage.
//
//	extracting → normalizing → succeeded
//	                         → retrying → normalizing   (bounded)
//	                         → failed
//
// A normalization pass that yields zero records with errors present is
// retried against the same raw batch up to the retry ceiling. Zero
// records with no errors is a clean empty result and terminates as
// failed without burning retries.
type Machine struct {
	normalizer Normalizer
	logger     arbor.ILogger
}

// NewMachine creates a workflow machine sharing one normalizer
func NewMachine(normalizer Normalizer, logger arbor.ILogger) *Machine {
	return &Machine{normalizer: normalizer, logger: logger}
}

// Run executes the workflow for one source and returns the accumulated
// state whatever the terminal stage. The extractor may be nil for an
// unknown source identifier; that is a clean empty result, not an error.
func (m *Machine) Run(ctx context.Context, extractor interfaces.Extractor, source, role, location string) *models.PipelineState {
	state := models.NewPipelineState(source, role, location)

	for !state.Stage.IsTerminal() {
		select {
		case <-ctx.Done():
			state.AddError("workflow canceled: %v", ctx.Err())
			state.Stage = models.StageFailed
			return state
		default:
		}

		switch state.Stage {
		case models.StageExtracting:
			m.extract(ctx, extractor, state)
		case models.StageNormalizing:
			m.normalize(ctx, state)
		case models.StageRetrying:
			state.RetryCount++
			m.logger.Info().
				Str("source", state.Source).
				Int("retry", state.RetryCount).
				Msg("Retrying normalization for source")
			state.Stage = models.StageNormalizing
		default:
			state.AddError("unknown stage %q", state.Stage)
			state.Stage = models.StageFailed
		}
	}

	m.logger.Debug().
		Str("source", state.Source).
		Str("stage", string(state.Stage)).
		Int("records", len(state.NormalizedRecords)).
		Int("errors", len(state.ErrorTrace)).
		Msg("Source workflow finished")

	return state
}

func (m *Machine) extract(ctx context.Context, extractor interfaces.Extractor, state *models.PipelineState) {
	if extractor == nil {
		state.Stage = models.StageFailed
		return
	}

	records, notes := extractor.Extract(ctx, state.TargetRole, state.TargetLocation)
	for _, note := range notes {
		state.AddError("%s", note)
	}
	state.ExtractedRecords = records

	if len(records) == 0 {
		// Nothing to normalize; retries only re-run normalization
		state.Stage = models.StageFailed
		return
	}
	state.Stage = models.StageNormalizing
}

func (m *Machine) normalize(ctx context.Context, state *models.PipelineState) {
	normalized, errs := m.normalizer.Normalize(ctx, state.ExtractedRecords)
	for _, e := range errs {
		state.AddError("%s", e)
	}
	state.NormalizedRecords = append(state.NormalizedRecords, normalized...)

	switch {
	case len(normalized) > 0:
		state.Stage = models.StageSucceeded
	case len(errs) > 0 && state.RetryCount < models.MaxNormalizeRetries:
		state.Stage = models.StageRetrying
	default:
		state.Stage = models.StageFailed
	}
}
