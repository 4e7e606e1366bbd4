package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/presentation/graph"
	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the binding table",
	Long: `Builds the scoring table and prints it as a Mermaid flowchart
(inputs -> bindings -> written flags), a Markdown table or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		active, _ := cmd.Flags().GetStringSlice("active")

		table, err := cli.BuildTable(cfg.Scoring)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch format {
		case "mermaid":
			var overlay *graph.GraphOverlay
			if len(active) > 0 {
				overlay = &graph.GraphOverlay{ActiveFlags: active}
			}
			fmt.Fprint(out, graph.GenerateMermaid(table.Schema(), overlay))
		case "markdown":
			rendered, err := tui.NewRenderer()(graph.GenerateMarkdown(table.Schema()))
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(cadence.Describe(table.Schema()))
		default:
			return fmt.Errorf("unknown format %q (want mermaid, markdown or json)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid, markdown or json")
	graphCmd.Flags().StringSlice("active", nil, "Flags to highlight in the Mermaid output")
}
