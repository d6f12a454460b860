package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matcha-labs/matcha-cli/internal/adapters/driven/corpus"
	"github.com/matcha-labs/matcha-cli/internal/adapters/driving/httpapi"
	"github.com/matcha-labs/matcha-cli/internal/logger"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the analysis pipeline over HTTP. The corpus is loaded at
startup; with --watch, shards reload automatically when their CSV
files change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload shards when corpus files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := loadCorpus(ctx); err != nil {
		return err
	}

	// The embedding-backed endpoints are optional; serve whatever the
	// configuration supports.
	ports := &httpapi.Ports{
		Corpus:   corpusService,
		Detector: detectorService,
	}
	if err := ensureAnalysisServices(cmd); err == nil {
		ports.Analyzer = analyzerService
		ports.Duplicates = duplicateService
		defer closeAnalysisServices()
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: analysis endpoints disabled: %v\n", err)
	}

	server, err := httpapi.NewServer(ports, httpapi.Config{ExportDir: exportDir()})
	if err != nil {
		return err
	}

	if serveWatch || appSettings.Corpus.Watch {
		watcher, err := corpus.NewWatcher(appSettings.Corpus.Dir, func(ctx context.Context, filename string) {
			if err := loaderService.ReloadFile(ctx, filename); err != nil {
				logger.Warn("Reload failed for %s: %v", filename, err)
			}
		})
		if err != nil {
			return fmt.Errorf("starting corpus watcher: %w", err)
		}
		defer watcher.Close()
		go watcher.Start(ctx)
	}

	addr := fmt.Sprintf(":%d", servePort)
	cmd.Printf("matcha API listening on http://localhost%s\n", addr)
	return server.Listen(ctx, addr)
}
