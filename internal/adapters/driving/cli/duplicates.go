package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

var (
	duplicatesArea      string
	duplicatesThreshold float64
	duplicatesJSON      bool
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Scan the corpus for near-identical test case pairs",
	Long: `Embeds every loaded test case and reports pairs whose similarity
clears the threshold. When an LLM provider is configured the pairs are
also classified as true duplicates, overlapping or distinct.`,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().StringVar(&duplicatesArea, "area", "", "limit the scan to one area")
	duplicatesCmd.Flags().Float64VarP(&duplicatesThreshold, "threshold", "t", 0, "pair similarity floor (default 0.9)")
	duplicatesCmd.Flags().BoolVar(&duplicatesJSON, "json", false, "output pairs as JSON")
	rootCmd.AddCommand(duplicatesCmd)
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	if err := ensureAnalysisServices(cmd); err != nil {
		return err
	}
	defer closeAnalysisServices()

	ctx := cmd.Context()
	if err := loadCorpus(ctx); err != nil {
		return err
	}

	threshold := duplicatesThreshold
	if threshold <= 0 {
		threshold = appSettings.Analysis.DuplicateThreshold
	}

	pairs, err := findDuplicates(cmd, threshold)
	if err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	if duplicatesJSON {
		return printJSON(cmd, pairs)
	}

	if len(pairs) == 0 {
		cmd.Println("No duplicate pairs found.")
		return nil
	}

	cmd.Printf("Potential duplicates (%d):\n\n", len(pairs))
	for _, p := range pairs {
		cmd.Printf("  %s  %s\n", p.A.ID, p.A.Title)
		cmd.Printf("  %s  %s\n", p.B.ID, p.B.Title)
		cmd.Printf("  similarity %.3f", p.Score)
		if p.Classification != "" {
			cmd.Printf("  [%s]", p.Classification)
		}
		cmd.Println()
		if p.Reasoning != "" {
			cmd.Printf("  %s\n", p.Reasoning)
		}
		cmd.Println()
	}
	return nil
}

func findDuplicates(cmd *cobra.Command, threshold float64) ([]domain.DuplicatePair, error) {
	ctx := cmd.Context()
	if duplicatesArea != "" {
		return duplicateService.FindInShard(ctx, duplicatesArea, threshold)
	}
	return duplicateService.FindAll(ctx, threshold)
}
