package models

import "time"

// SearchRequest is one multi-source search invocation.
// An empty Sources slice means all registered sources.
type SearchRequest struct {
	Role     string   `json:"role"`
	Location string   `json:"location"`
	Sources  []string `json:"sources,omitempty"`
}

// SearchResult is the dispatcher-level aggregate: the union of all
// sources' normalized records after URL deduplication, plus every
// source's error trace. It exists for the duration of one search and is
// persisted only by the caller.
type SearchResult struct {
	RunID     string                `json:"run_id,omitempty"`
	Role      string                `json:"role"`
	Location  string                `json:"location"`
	Titles    []string              `json:"titles,omitempty"` // Expanded role titles, when enabled
	Records   []NormalizedJobRecord `json:"records"`
	Errors    []string              `json:"errors"`
	Synthetic bool                  `json:"synthetic"` // True when records came from fallback generation
	Searched  time.Time             `json:"searched"`
}

// AppliedJob is one entry in the caller-owned applied-jobs log
type AppliedJob struct {
	Record     NormalizedJobRecord `json:"record"`
	RunID      string              `json:"run_id"`
	AppliedVia string              `json:"applied_via"`
	AppliedAt  time.Time           `json:"applied_at"`
}
