package interfaces

import (
	"context"

	"github.com/ternarybob/reperio/internal/models"
)

// Extractor fetches raw job listings from one source. Implementations must
// never let an internal failure escape: network errors, parse errors,
// timeouts and anti-bot blocks are all absorbed into an empty slice plus
// optional diagnostic notes. Callers treat "zero records" and "source
// unreachable" identically.
//
// Output ordering is source-defined and not guaranteed stable across calls.
type Extractor interface {
	// Name returns the canonical source identifier (lowercase)
	Name() string

	// Extract fetches raw records for a role in a location.
	// The returned notes are diagnostic only and may be nil.
	Extract(ctx context.Context, role, location string) ([]models.RawJobRecord, []string)
}

// BrowserBacked is implemented by extractors that launch a headless
// browser per invocation. The dispatcher lowers its worker ceiling when
// any selected source is browser-backed to bound peak rendering memory.
type BrowserBacked interface {
	UsesBrowser() bool
}
