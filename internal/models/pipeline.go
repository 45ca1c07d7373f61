package models

import "fmt"

// PipelineStage identifies where a per-source workflow is in its lifecycle
type PipelineStage string

const (
	StageExtracting  PipelineStage = "extracting"
	StageNormalizing PipelineStage = "normalizing"
	StageRetrying    PipelineStage = "retrying"
	StageSucceeded   PipelineStage = "succeeded"
	StageFailed      PipelineStage = "failed"
)

// IsTerminal reports whether the stage ends the workflow
func (s PipelineStage) IsTerminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// MaxNormalizeRetries bounds the normalize retry loop per source
const MaxNormalizeRetries = 3

// PipelineState is the mutable context threaded through one source's
// extract→normalize workflow. It is owned exclusively by a single workflow
// invocation and never shared across sources; that ownership is what lets
// sources fail independently.
type PipelineState struct {
	Source            string                `json:"source"`
	TargetRole        string                `json:"target_role"`
	TargetLocation    string                `json:"target_location"`
	Stage             PipelineStage         `json:"stage"`
	ExtractedRecords  []RawJobRecord        `json:"extracted_records"`
	NormalizedRecords []NormalizedJobRecord `json:"normalized_records"` // Append-only across retries
	ErrorTrace        []string              `json:"error_trace"`        // Append-only
	RetryCount        int                   `json:"retry_count"`        // Monotonic
}

// NewPipelineState creates the initial state for one source workflow
func NewPipelineState(source, role, location string) *PipelineState {
	return &PipelineState{
		Source:         source,
		TargetRole:     role,
		TargetLocation: location,
		Stage:          StageExtracting,
	}
}

// AddError appends a human-readable failure note to the trace
func (s *PipelineState) AddError(format string, args ...interface{}) {
	s.ErrorTrace = append(s.ErrorTrace, fmt.Sprintf(format, args...))
}

// HasRecords reports whether any normalized records were accumulated.
// Callers branch on this, not on the terminal stage name.
func (s *PipelineState) HasRecords() bool {
	return len(s.NormalizedRecords) > 0
}
