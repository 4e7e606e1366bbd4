package main

import (
	"log"
	"os"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/pkg/runner"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the scoring engine as a Model Context Protocol (MCP) server",
	Long: `Ticks the scoring table in real time and exposes it as an MCP server,
so agents can read flags, set or pulse signals and trigger resets as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP on http.addr. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = addr
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		return cli.HandleExecutionError(cli.ServeMCP(signals.Context(), cfg, logger, cli.MCPTransport(transport)))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().StringP("addr", "a", ":8080", "Listen address for SSE (overrides http.addr)")
}
