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
	"github.com/avdwerff/bridgechat/internal/ui"
)

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Example: `  bridgechat ask "What are the identifiers for the TP53 gene?"
  bridgechat ask "Find mappings for Busulfan"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print the raw answer without Markdown rendering")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("closing application", "error", err)
		}
	}()

	question := strings.Join(args, " ")

	answer, err := a.Agent.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	if askPlain {
		fmt.Println(answer)
		return nil
	}

	fmt.Println(ui.NewMarkdownRenderer(100).Render(answer))
	return nil
}
