package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect [bug text]",
	Short: "Detect which functional areas a bug report belongs to",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	result, err := detectorService.Detect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if detectJSON {
		return printJSON(cmd, result)
	}

	if len(result.Areas) == 0 {
		cmd.Println(result.Recommendation)
		return nil
	}

	cmd.Println("Detected areas:")
	for _, area := range result.Areas {
		cmd.Printf("  %-22s confidence %.2f (%d/%d keywords)\n",
			area.Name, area.Confidence, area.MatchedKeywords, area.TotalKeywords)
	}
	cmd.Println()
	cmd.Println(result.Recommendation)
	return nil
}
