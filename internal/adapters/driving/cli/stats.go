package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the loaded test case corpus",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := loadCorpus(ctx); err != nil {
		return err
	}

	stats, err := corpusService.Statistics(ctx)
	if err != nil {
		return err
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Total test cases: %d\n\n", stats.TotalTestCases)

	names := make([]string, 0, len(stats.Shards))
	for name := range stats.Shards {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		shard := stats.Shards[name]
		cmd.Printf("%s: %d\n", name, shard.Total)

		states := make([]string, 0, len(shard.States))
		for state := range shard.States {
			states = append(states, state)
		}
		sort.Strings(states)
		for _, state := range states {
			cmd.Printf("  %s: %d\n", state, shard.States[state])
		}
	}
	return nil
}
