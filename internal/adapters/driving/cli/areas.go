package cli

import (
	"github.com/spf13/cobra"
)

var areasJSON bool

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the configured functional areas",
	RunE:  runAreas,
}

func init() {
	areasCmd.Flags().BoolVar(&areasJSON, "json", false, "output the area table as JSON")
	rootCmd.AddCommand(areasCmd)
}

func runAreas(cmd *cobra.Command, _ []string) error {
	areas, err := detectorService.Areas(cmd.Context())
	if err != nil {
		return err
	}

	if areasJSON {
		return printJSON(cmd, areas)
	}

	for _, area := range areas {
		cmd.Printf("%s (priority %d, %d keywords)\n", area.Name, area.Priority, len(area.Keywords))
		cmd.Printf("  %s\n", area.Description)
		cmd.Printf("  File: %s\n\n", area.File)
	}
	return nil
}
