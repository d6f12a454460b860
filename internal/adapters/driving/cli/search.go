package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchArea  string
	searchID    string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword ...]",
	Short: "Search loaded test cases",
	Long: `Searches the loaded corpus by keyword, ranked by how many of the
given keywords appear in each test case. Use --area to list one shard
instead, or --id to fetch a single test case.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchArea, "area", "", "list test cases from one area instead of keyword search")
	searchCmd.Flags().StringVar(&searchID, "id", "", "fetch a single test case by ID")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := loadCorpus(ctx); err != nil {
		return err
	}

	switch {
	case searchID != "":
		tc, err := corpusService.GetByID(ctx, searchID)
		if err != nil {
			return fmt.Errorf("lookup failed: %w", err)
		}
		if searchJSON {
			return printJSON(cmd, tc)
		}
		cmd.Printf("%s  %s\n", tc.ID, tc.Title)
		cmd.Printf("  State: %s\n", tc.State)
		cmd.Printf("  Area: %s\n", tc.Area)
		if tc.Description != "" {
			cmd.Printf("  %s\n", tc.Description)
		}
		return nil

	case searchArea != "":
		records, err := corpusService.SearchByArea(ctx, searchArea, searchLimit)
		if err != nil {
			return fmt.Errorf("area listing failed: %w", err)
		}
		if searchJSON {
			return printJSON(cmd, records)
		}
		if len(records) == 0 {
			cmd.Println("No test cases loaded for this area.")
			return nil
		}
		for i, tc := range records {
			cmd.Printf("  [%d] %s  %s (%s)\n", i+1, tc.ID, tc.Title, tc.State)
		}
		return nil

	default:
		matches, err := corpusService.SearchByKeywords(ctx, args, searchLimit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if searchJSON {
			return printJSON(cmd, matches)
		}
		if len(matches) == 0 {
			cmd.Println("No results found.")
			return nil
		}
		for i, m := range matches {
			cmd.Printf("  [%d] %s  %s (%.2f)\n", i+1, m.TestCase.ID, m.TestCase.Title, m.Relevance)
			cmd.Printf("      Matched: %v\n", m.MatchedKeywords)
		}
		return nil
	}
}
