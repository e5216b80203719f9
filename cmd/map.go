package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avdwerff/bridgechat/internal/app"
	"github.com/avdwerff/bridgechat/internal/config"
)

var mapCmd = &cobra.Command{
	Use:   "map [query]",
	Short: "Resolve a mapping query directly, without the LLM",
	Long: `Map resolves an identifier query against BridgeDB and prints the report.
No model provider or API key is needed.

Query formats:
  'species, source, identifier'   e.g. 'Homo sapiens, En, ENSG00000139618'
  'source, identifier'            e.g. 'Cpc, 2478' (species defaults to Human)
  bare identifier or name         e.g. 'ENSG00000139618', 'BRCA2', 'Busulfan'`,
	Example: `  bridgechat map "BRCA2"
  bridgechat map "Cpc, 2478"
  bridgechat map "Homo sapiens, En, ENSG00000139618"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")

	report, err := res.Resolve(ctx, query)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", query, err)
	}

	fmt.Println(report)
	return nil
}
