// Package cli implements the matcha command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/ai"
	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/config/file"
	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/corpus/csvfile"
	exportcsv "github.com/matcha-labs/matcha-cli/internal/adapters/driven/export/csvfile"
	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/storage/memory"
	"github.com/matcha-labs/matcha-cli/internal/core/domain"
	"github.com/matcha-labs/matcha-cli/internal/core/ports/driven"
	"github.com/matcha-labs/matcha-cli/internal/core/services"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagCorpusDir string
)

// Wired services. Tests replace these with mocks.
var (
	settingsStore   *file.SettingsStore
	appSettings     domain.AppSettings
	corpusStore     driven.CorpusStore
	loaderService   *services.LoaderService
	detectorService *services.DetectorService
	corpusService   *services.CorpusQueryService

	// AI-backed services, built lazily; nil until ensureAnalysisServices.
	aiResult         *ai.InitResult
	analyzerService  *services.AnalyzerService
	duplicateService *services.DuplicateService
)

var rootCmd = &cobra.Command{
	Use:   "matcha",
	Short: "Match bug reports against a QA test case corpus",
	Long: `matcha ranks QA test cases against bug reports.

It detects which functional areas a bug belongs to, ranks test cases by
semantic similarity, asks an LLM reviewer which matches are genuinely
related, and flags near-duplicate test cases.`,
	SilenceUsage:      true,
	PersistentPreRunE: initPipeline,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.matcha)")
	rootCmd.PersistentFlags().StringVar(&flagCorpusDir, "corpus", "", "corpus directory containing per-area CSV files")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initPipeline wires the corpus-level services every command needs.
// AI-backed services are built lazily because most commands never
// touch an embedding or LLM provider.
func initPipeline(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	store, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsStore = store

	appSettings, err = store.Load()
	if err != nil {
		return err
	}
	applyEnvOverrides(&appSettings)
	if flagCorpusDir != "" {
		appSettings.Corpus.Dir = flagCorpusDir
	}

	areaNames := make([]string, 0, len(appSettings.Areas))
	for _, area := range appSettings.Areas {
		areaNames = append(areaNames, area.Name)
	}
	corpusStore = memory.NewCorpusStore(areaNames...)
	source := csvfile.NewSource(appSettings.Corpus.Dir)
	loaderService = services.NewLoaderService(source, corpusStore, appSettings.Areas)
	detectorService = services.NewDetectorService(appSettings.Areas)
	corpusService = services.NewCorpusQueryService(corpusStore)

	return nil
}

// applyEnvOverrides lets environment variables fill in credentials so
// API keys can stay out of the config file.
func applyEnvOverrides(settings *domain.AppSettings) {
	if v := os.Getenv("MATCHA_EMBEDDING_PROVIDER"); v != "" {
		settings.Embedding.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv("MATCHA_EMBEDDING_MODEL"); v != "" {
		settings.Embedding.Model = v
	}
	if v := os.Getenv("MATCHA_LLM_PROVIDER"); v != "" {
		settings.LLM.Provider = domain.AIProvider(v)
	}
	if v := os.Getenv("MATCHA_LLM_MODEL"); v != "" {
		settings.LLM.Model = v
	}
	if v := os.Getenv("MATCHA_CORPUS_DIR"); v != "" {
		settings.Corpus.Dir = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
			settings.Embedding.APIKey = v
		}
		if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" {
			settings.LLM.APIKey = v
		}
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		if settings.LLM.Provider == domain.AIProviderAnthropic && settings.LLM.APIKey == "" {
			settings.LLM.APIKey = v
		}
	}
}

// loadCorpus reads every configured shard into the store.
func loadCorpus(ctx context.Context) error {
	if loaderService == nil {
		return errors.New("corpus loader not configured")
	}
	_, err := loaderService.LoadAll(ctx)
	return err
}

// ensureAnalysisServices builds the embedding and LLM backed services
// on first use, printing any degradation warnings.
func ensureAnalysisServices(cmd *cobra.Command) error {
	if analyzerService != nil {
		return nil
	}

	result, err := ai.InitServices(&appSettings)
	if err != nil {
		return err
	}
	aiResult = result
	for _, warning := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	ranker := services.NewRankerService(result.EmbeddingService)
	reviewer := services.NewReviewerService(result.LLMService)
	duplicateService = services.NewDuplicateService(corpusStore, result.EmbeddingService, reviewer)

	exporter, err := exportcsv.NewExporter(exportDir())
	if err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	analyzerService = services.NewAnalyzerService(
		corpusStore, detectorService, ranker, reviewer, duplicateService, exporter)
	return nil
}

// closeAnalysisServices releases provider connections after a command.
func closeAnalysisServices() {
	if aiResult != nil {
		aiResult.Close()
		aiResult = nil
	}
	analyzerService = nil
	duplicateService = nil
}

// exportDir is where CSV reports land, next to the config file.
func exportDir() string {
	if settingsStore != nil {
		return filepath.Join(filepath.Dir(settingsStore.Path()), "reports")
	}
	return "reports"
}
