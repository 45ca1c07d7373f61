package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/reperio/internal/common"
	"github.com/ternarybob/reperio/internal/extractors"
	"github.com/ternarybob/reperio/internal/interfaces"
	"github.com/ternarybob/reperio/internal/models"
	"github.com/ternarybob/reperio/internal/pipeline"
	"github.com/ternarybob/reperio/internal/services/fallback"
	"github.com/ternarybob/reperio/internal/services/llm"
	"github.com/ternarybob/reperio/internal/services/normalizer"
	"github.com/ternarybob/reperio/internal/services/search"
	"github.com/ternarybob/reperio/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	role        = flag.String("role", "", "Target role to search for")
	location    = flag.String("location", "", "Target location")
	sources     = flag.String("sources", "", "Comma-separated source names (default: all registered)")
	watch       = flag.String("watch", "", "Cron schedule for repeated searches (overrides config)")
	showApplied = flag.Bool("applied", false, "Print the applied-jobs log and exit")
	markApplied = flag.String("mark-applied", "", "Mark jobs applied: run-id/job-id[,job-id...] ('latest' selects the newest run)")
	showVersion = flag.Bool("version", false, "Print version information")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Reperio version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup order: config, logger, banner, then wiring
	if len(configFiles) == 0 {
		if _, err := os.Stat("reperio.toml"); err == nil {
			configFiles = append(configFiles, "reperio.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("Interrupt received, canceling in-flight work")
		cancel()
	}()

	store, err := openStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open result store")
		os.Exit(1)
	}
	defer store.Close()

	if *showApplied {
		printAppliedLog(store)
		return
	}

	if *markApplied != "" {
		if err := markJobsApplied(store, *markApplied); err != nil {
			logger.Fatal().Err(err).Msg("Failed to mark jobs applied")
			os.Exit(1)
		}
		return
	}

	if *role == "" || *location == "" {
		logger.Fatal().Msg("Both -role and -location are required")
		os.Exit(1)
	}

	service, closeProvider, err := buildSearchService()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to wire search pipeline")
		os.Exit(1)
	}
	defer closeProvider()

	request := models.SearchRequest{
		Role:     *role,
		Location: *location,
		Sources:  splitSources(*sources),
	}

	schedule := *watch
	if schedule == "" {
		schedule = config.Search.Schedule
	}

	if schedule == "" {
		if err := runOnce(ctx, service, store, request); err != nil {
			logger.Fatal().Err(err).Msg("Search failed")
			os.Exit(1)
		}
		return
	}

	runWatch(ctx, service, store, request, schedule)
}

// buildSearchService wires the registry, LLM services and dispatcher
func buildSearchService() (interfaces.SearchService, func(), error) {
	catalog, err := extractors.LoadCatalog(config.Sources.CatalogPath)
	if err != nil {
		return nil, nil, err
	}

	registry := extractors.NewDefaultRegistry(config, catalog, logger)
	logger.Info().Strs("sources", registry.Names()).Msg("Extractor registry ready")

	provider := llm.NewProviderFactory(config, logger)
	machine := pipeline.NewMachine(normalizer.NewService(provider, config, logger), logger)

	var generator search.Generator
	if config.Fallback.Enabled {
		generator = fallback.NewGenerator(provider, config, logger)
	}
	var expander search.Expander
	if config.Search.ExpandTitles {
		expander = search.NewTitleExpander(provider, config, logger)
	}

	service := search.NewService(config, registry, machine, generator, expander, logger)
	return service, func() { _ = provider.Close() }, nil
}

func openStore() (interfaces.ResultStore, error) {
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}
	return badger.NewResultStore(db, logger), nil
}

// runOnce performs a single search, persists the run and prints it
func runOnce(ctx context.Context, service interfaces.SearchService, store interfaces.ResultStore, request models.SearchRequest) error {
	result, err := service.Search(ctx, request)
	if err != nil {
		return err
	}

	if err := store.SaveRun(result); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist search run")
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(output))

	logger.Info().
		Str("run_id", result.RunID).
		Int("records", len(result.Records)).
		Int("errors", len(result.Errors)).
		Bool("synthetic", result.Synthetic).
		Msg("Search complete")
	return nil
}

// runWatch repeats the search on a cron schedule until interrupted
func runWatch(ctx context.Context, service interfaces.SearchService, store interfaces.ResultStore, request models.SearchRequest, schedule string) {
	if err := common.ValidateSchedule(schedule); err != nil {
		logger.Fatal().Err(err).Msg("Invalid watch schedule")
		os.Exit(1)
	}

	runner := cron.New()
	_, err := runner.AddFunc(schedule, func() {
		if err := runOnce(ctx, service, store, request); err != nil {
			logger.Error().Err(err).Msg("Scheduled search failed")
		}
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to schedule watch")
		os.Exit(1)
	}

	logger.Info().Str("schedule", schedule).Msg("Watch mode started, press Ctrl+C to stop")
	runner.Start()

	<-ctx.Done()
	<-runner.Stop().Done()
	logger.Info().Msg("Watch mode stopped")
}

func printAppliedLog(store interfaces.ResultStore) {
	log, err := store.AppliedLog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to read applied log")
		os.Exit(1)
	}

	output, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode applied log")
		os.Exit(1)
	}
	fmt.Println(string(output))
}

// markJobsApplied records applications against a stored run and prints
// the updated log entries
func markJobsApplied(store interfaces.ResultStore, spec string) error {
	runID, jobIDs, err := parseAppliedSpec(spec)
	if err != nil {
		return err
	}

	if runID == "latest" {
		run, err := store.LatestRun()
		if err != nil {
			return err
		}
		runID = run.RunID
	}

	entries, err := store.MarkApplied(runID, jobIDs, "cli")
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode applied entries: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// parseAppliedSpec splits "run-id/job-id[,job-id...]" into its parts
func parseAppliedSpec(spec string) (string, []string, error) {
	runID, jobCSV, found := strings.Cut(spec, "/")
	runID = strings.TrimSpace(runID)
	jobIDs := splitSources(jobCSV)
	if !found || runID == "" || len(jobIDs) == 0 {
		return "", nil, fmt.Errorf("expected run-id/job-id[,job-id...], got %q", spec)
	}
	return runID, jobIDs, nil
}

func splitSources(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
