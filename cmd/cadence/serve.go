package main

import (
	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/presentation/tui"
	"github.com/aretw0/cadence/pkg/runner"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring engine in real time behind an HTTP API",
	Long: `Ticks the scoring table at the configured period. Signals are written
over HTTP, flag changes are streamed as server-sent events and, when
redis.addr is set, published to Redis. Prometheus metrics are served on
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = addr
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		return cli.HandleExecutionError(cli.Serve(signals.Context(), cfg, logger))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Listen address (overrides http.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
