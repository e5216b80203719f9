// Package cmd provides the bridgechat CLI commands.
//
// Commands:
//   - chat (default): interactive conversation with the mapping agent
//   - ask: one-shot question
//   - map: direct identifier resolution, no LLM involved
//   - mcp: Model Context Protocol server for IDE integration
//   - version: build and configuration info
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/avdwerff/bridgechat/internal/config"
	"github.com/avdwerff/bridgechat/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "bridgechat",
	Short: "BridgeChat - natural language front end for BridgeDB identifier mapping",
	Long: `BridgeChat lets you cross-reference biological and chemical identifiers
using natural language. It maps genes, compounds, and database identifiers
through the BridgeDB web service, with a PubChem fallback for chemical names.

Running bridgechat without a subcommand starts the interactive chat mode.`,
	RunE:          runChat,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger from configuration.
// Logs go to stderr; stdout is reserved for command output (and for
// JSON-RPC in MCP mode).
func newLogger(cfg *config.Config) log.Logger {
	return log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})
}
