package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewJobID generates a unique normalized-record ID with the "job_y_" prefix.
// Format: job_y_<first 8 hex chars of a uuid>, matching the IDs the
// normalizer is asked to synthesize when the LLM omits one.
func NewJobID() string {
	return "job_y_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// NewRunID generates a unique search-run ID with the "run_" prefix.
func NewRunID() string {
	return "run_" + uuid.New().String()
}
