package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// storedRun wraps a search result for badgerhold indexing
type storedRun struct {
	RunID    string `badgerhold:"key"`
	Searched time.Time
	Result   models.SearchResult
}

// storedApplication is one applied-log entry keyed by run and job
type storedApplication struct {
	Key       string `badgerhold:"key"` // runID/jobID
	AppliedAt time.Time
	Entry     models.AppliedJob
}

// ResultStore persists search runs and the applied-jobs log. The core
// pipeline never touches it; only the CLI layer reads and writes here.
type ResultStore struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewResultStore creates a ResultStore on the given connection
func NewResultStore(db *BadgerDB, logger arbor.ILogger) interfaces.ResultStore {
	return &ResultStore{db: db, logger: logger}
}

// SaveRun persists a search result, assigning a run ID when absent
func (s *ResultStore) SaveRun(result *models.SearchResult) error {
	if result == nil {
		return fmt.Errorf("cannot save a nil search result")
	}
	if result.RunID == "" {
		result.RunID = common.NewRunID()
	}
	if result.Searched.IsZero() {
		result.Searched = time.Now().UTC()
	}

	run := storedRun{RunID: result.RunID, Searched: result.Searched, Result: *result}
	if err := s.db.Store().Upsert(run.RunID, &run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}

	s.logger.Debug().
		Str("run_id", result.RunID).
		Int("records", len(result.Records)).
		Msg("Search run persisted")
	return nil
}

// GetRun loads one search run by ID
func (s *ResultStore) GetRun(runID string) (*models.SearchResult, error) {
	var run storedRun
	if err := s.db.Store().Get(runID, &run); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return &run.Result, nil
}

// LatestRun returns the most recently searched run
func (s *ResultStore) LatestRun() (*models.SearchResult, error) {
	var runs []storedRun
	query := badgerhold.Where("RunID").Ne("").SortBy("Searched").Reverse().Limit(1)
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs stored")
	}
	return &runs[0].Result, nil
}

// MarkApplied records applications against jobs in a stored run and
// flips their status in the run itself
func (s *ResultStore) MarkApplied(runID string, jobIDs []string, via string) ([]models.AppliedJob, error) {
	var run storedRun
	if err := s.db.Store().Get(runID, &run); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}

	wanted := make(map[string]bool, len(jobIDs))
	for _, id := range jobIDs {
		wanted[id] = true
	}

	now := time.Now().UTC()
	var applied []models.AppliedJob

	for i := range run.Result.Records {
		record := &run.Result.Records[i]
		if !wanted[record.ID] {
			continue
		}
		record.Status = models.StatusApplied

		entry := models.AppliedJob{
			Record:     *record,
			RunID:      runID,
			AppliedVia: via,
			AppliedAt:  now,
		}
		stored := storedApplication{
			Key:       runID + "/" + record.ID,
			AppliedAt: now,
			Entry:     entry,
		}
		if err := s.db.Store().Upsert(stored.Key, &stored); err != nil {
			return applied, fmt.Errorf("failed to record application for %s: %w", record.ID, err)
		}
		applied = append(applied, entry)
	}

	if len(applied) == 0 {
		return nil, fmt.Errorf("no matching jobs in run %s", runID)
	}

	if err := s.db.Store().Upsert(runID, &run); err != nil {
		return applied, fmt.Errorf("failed to update run %s: %w", runID, err)
	}

	s.logger.Info().
		Str("run_id", runID).
		Int("applied", len(applied)).
		Msg("Jobs marked applied")
	return applied, nil
}

// AppliedLog returns every recorded application, newest first
func (s *ResultStore) AppliedLog() ([]models.AppliedJob, error) {
	var stored []storedApplication
	query := badgerhold.Where("Key").Ne("").SortBy("AppliedAt").Reverse()
	if err := s.db.Store().Find(&stored, query); err != nil {
		return nil, fmt.Errorf("failed to query applied log: %w", err)
	}

	log := make([]models.AppliedJob, len(stored))
	for i := range stored {
		log[i] = stored[i].Entry
	}
	return log, nil
}

// Close closes the underlying database
func (s *ResultStore) Close() error {
	return s.db.Close()
}
