package interfaces

import "github.com/ternarybob/reperio/internal/models"

// ResultStore persists search runs and the applied-jobs log on behalf of
// the caller. The core pipeline never writes here; persistence is a
// caller-side concern.
type ResultStore interface {
	SaveRun(result *models.SearchResult) error
	GetRun(runID string) (*models.SearchResult, error)
	LatestRun() (*models.SearchResult, error)
	MarkApplied(runID string, jobIDs []string, via string) ([]models.AppliedJob, error)
	AppliedLog() ([]models.AppliedJob, error)
	Close() error
}
