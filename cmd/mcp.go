package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/avdwerff/bridgechat/internal/app"
	"github.com/avdwerff/bridgechat/internal/config"
	"github.com/avdwerff/bridgechat/internal/mcp"
	"github.com/avdwerff/bridgechat/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the mapIdentifiers tool over stdio",
	Long: `Mcp serves the identifier mapping tool over the Model Context Protocol,
for use from Claude Desktop, Cursor, and other MCP clients. The transport
is stdio: stdout carries JSON-RPC, logs go to stderr.

No model provider or API key is needed; the tool calls BridgeDB directly.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadMapping()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)

	res, err := app.NewResolver(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing resolver: %w", err)
	}

	mt, err := tools.NewMapping(res, logger)
	if err != nil {
		return fmt.Errorf("creating mapping toolset: %w", err)
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    "bridgechat",
		Version: AppVersion,
		Mapping: mt,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("starting MCP server on stdio", "version", AppVersion)
	return server.Run(ctx, &sdk.StdioTransport{})
}
