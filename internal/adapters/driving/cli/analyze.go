package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

var (
	analyzeSteps       string
	analyzeCodeChanges string
	analyzeStrictness  string
	analyzeTopK        int
	analyzeNoAutoLoad  bool
	analyzeExport      bool
	analyzeDupeThresh  float64
	analyzeJSON        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [bug description]",
	Short: "Match a bug report against the test case corpus",
	Long: `Runs the full analysis pipeline for a bug report: detects the
relevant functional areas, loads their test cases, ranks them by
semantic similarity, asks the LLM reviewer which are genuinely related
and scans the top matches for near-duplicates.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSteps, "steps", "", "reproduction steps")
	analyzeCmd.Flags().StringVar(&analyzeCodeChanges, "code-changes", "", "description of the fix, if known")
	analyzeCmd.Flags().StringVarP(&analyzeStrictness, "strictness", "s", "", "threshold preset: lenient, moderate or strict")
	analyzeCmd.Flags().IntVarP(&analyzeTopK, "top-k", "n", 0, "maximum number of candidates to rank")
	analyzeCmd.Flags().BoolVar(&analyzeNoAutoLoad, "no-auto-load", false, "load every shard instead of the detected areas")
	analyzeCmd.Flags().BoolVar(&analyzeExport, "export", false, "write matches to a CSV report")
	analyzeCmd.Flags().Float64Var(&analyzeDupeThresh, "duplicate-threshold", 0, "pair similarity floor for the duplicate scan")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := ensureAnalysisServices(cmd); err != nil {
		return err
	}
	defer closeAnalysisServices()

	ctx := cmd.Context()
	if err := loadCorpus(ctx); err != nil {
		return err
	}

	strictness := analyzeStrictness
	if strictness == "" {
		strictness = appSettings.Analysis.Strictness
	}
	topK := analyzeTopK
	if topK <= 0 {
		topK = appSettings.Analysis.TopK
	}

	bug := domain.BugReport{
		Description: args[0],
		ReproSteps:  analyzeSteps,
		CodeChanges: analyzeCodeChanges,
	}
	opts := domain.AnalyzeOptions{
		Strictness:         domain.ParseStrictness(strictness),
		TopK:               topK,
		AreaBoost:          appSettings.Analysis.AreaBoost,
		AutoLoad:           !analyzeNoAutoLoad,
		Export:             analyzeExport,
		DuplicateThreshold: analyzeDupeThresh,
	}

	report, err := analyzerService.Analyze(ctx, bug, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return printJSON(cmd, report)
	}
	printReport(cmd, report)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printReport(cmd *cobra.Command, report domain.AnalysisReport) {
	if report.Detection != nil {
		cmd.Printf("Area detection: %s\n\n", report.Detection.Recommendation)
	}

	if len(report.Matches) == 0 {
		cmd.Println("No similar test cases found.")
	} else {
		cmd.Printf("Similar test cases (%d):\n\n", len(report.Matches))
		for i, m := range report.Matches {
			cmd.Printf("  [%d] %s  %s (%.2f)\n", i+1, m.TestCase.ID, m.TestCase.Title, m.Score)
			if m.TestCase.Area != "" {
				cmd.Printf("      Area: %s\n", m.TestCase.Area)
			}
		}
		cmd.Println()
	}

	review := report.Review
	for _, rt := range review.RelatedTests {
		cmd.Printf("  Related: %s (confidence %d) - %s\n", rt.TestID, rt.Confidence, rt.Reasoning)
	}
	for _, su := range review.SuggestedUpdates {
		cmd.Printf("  Update %s: %s\n", su.TestID, su.Change)
	}
	for _, pt := range review.ProposedTests {
		cmd.Printf("  New test: %s - %s\n", pt.Title, pt.Rationale)
	}
	if review.Raw != "" {
		cmd.Println("  Reviewer output could not be parsed; raw response kept in the JSON report.")
	}

	if len(report.Duplicates) > 0 {
		cmd.Printf("\nPotential duplicates (%d):\n", len(report.Duplicates))
		for _, p := range report.Duplicates {
			cmd.Printf("  %s <-> %s (%.2f)", p.A.ID, p.B.ID, p.Score)
			if p.Classification != "" {
				cmd.Printf(" [%s]", p.Classification)
			}
			cmd.Println()
		}
	}

	if report.ExportPath != "" {
		cmd.Printf("\nReport written to %s\n", report.ExportPath)
	}
	for _, warning := range report.Warnings {
		cmd.Printf("warning: %s\n", warning)
	}
}
