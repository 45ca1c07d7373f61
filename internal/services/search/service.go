package search

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/extractors"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/pipeline"
)

// Generator produces synthetic listings when all live sources are empty
type Generator interface {
	Generate(ctx context.Context, role, location string) []models.NormalizedJobRecord
}

// Expander widens a base role into related search titles
type Expander interface {
	ExpandTitles(ctx context.Context, role string) []string
}

// Service fans one search request out across the selected sources, runs
// each through its own workflow, and merges the results. Synchronous to
// the caller, concurrent inside. Per-source failures land on the error
// list; the call itself fails only on cancellation.
type Service struct {
	cfg       *common.Config
	registry  *extractors.Registry
	machine   *pipeline.Machine
	generator Generator
	expander  Expander
	logger    arbor.ILogger
}

// NewService creates the search dispatcher. The generator and expander
// may be nil to disable fallback generation and title expansion.
func NewService(
	cfg *common.Config,
	registry *extractors.Registry,
	machine *pipeline.Machine,
	generator Generator,
	expander Expander,
	logger arbor.ILogger,
) *Service {
	return &Service{
		cfg:       cfg,
		registry:  registry,
		machine:   machine,
		generator: generator,
		expander:  expander,
		logger:    logger,
	}
}

// Search runs the request across all selected sources and returns the
// deduplicated, shuffled union of their records
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	if req.Role == "" {
		return nil, fmt.Errorf("search request requires a role")
	}
	if req.Location == "" {
		return nil, fmt.Errorf("search request requires a location")
	}

	sources := req.Sources
	if len(sources) == 0 {
		sources = s.registry.Names()
	}

	result := &models.SearchResult{
		Role:     req.Role,
		Location: req.Location,
		Searched: time.Now().UTC(),
	}

	// Every source is scraped once per title; the expanded list always
	// leads with the base role, so expansion only widens the fan-out.
	titles := []string{req.Role}
	if s.cfg.Search.ExpandTitles && s.expander != nil {
		titles = s.expander.ExpandTitles(ctx, req.Role)
		result.Titles = titles
	}

	workers := s.cfg.Search.MaxWorkers
	if s.registry.HasBrowserSource(sources) {
		// Each browser source holds a Chrome process; keep fewer in flight
		workers = s.cfg.Search.BrowserMaxWorkers
	}

	s.logger.Info().
		Str("role", req.Role).
		Str("location", req.Location).
		Int("sources", len(sources)).
		Int("titles", len(titles)).
		Int("workers", workers).
		Msg("Dispatching search")

	states := make(chan *models.PipelineState, len(sources)*len(titles))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, source := range sources {
		for _, title := range titles {
			group.Go(func() error {
				states <- s.machine.Run(groupCtx, s.registry.Lookup(source), source, title, req.Location)
				return nil
			})
		}
	}

	// Workers never return errors; Wait only observes cancellation
	_ = group.Wait()
	close(states)

	s.collect(states, result)

	if len(result.Records) == 0 && s.generator != nil && s.cfg.Fallback.Enabled {
		if synthetic := s.generator.Generate(ctx, req.Role, req.Location); len(synthetic) > 0 {
			result.Records = synthetic
			result.Synthetic = true
		}
	}
	if len(result.Records) == 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no records from any of %d sources and fallback generation produced nothing", len(sources)))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// collect merges terminal states: first-seen-wins dedup on canonical
// application URL, then a shuffle so no source monopolizes the top of
// the list
func (s *Service) collect(states <-chan *models.PipelineState, result *models.SearchResult) {
	seen := make(map[string]bool)

	for state := range states {
		result.Errors = append(result.Errors, state.ErrorTrace...)

		for _, record := range state.NormalizedRecords {
			key := common.CanonicalURL(record.ApplicationURL)
			if key != "" {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			result.Records = append(result.Records, record)
		}
	}

	rand.Shuffle(len(result.Records), func(i, j int) {
		result.Records[i], result.Records[j] = result.Records[j], result.Records[i]
	})

	if limit := s.cfg.Search.ResultLimit; limit > 0 && len(result.Records) > limit {
		result.Records = result.Records[:limit]
	}
}
