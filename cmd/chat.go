package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/avdwerff/bridgechat/internal/app"
	"github.com/avdwerff/bridgechat/internal/config"
	"github.com/avdwerff/bridgechat/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation about identifier mappings",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
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

	sessionID := uuid.New()
	styles := ui.DefaultStyles()
	renderer := ui.NewMarkdownRenderer(100)

	fmt.Print(styles.RenderBanner())
	fmt.Println(styles.System.Render(fmt.Sprintf("model: %s | session: %s", cfg.FullModelName(), sessionID)))
	fmt.Println()
	fmt.Print(styles.RenderWelcomeTips())
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(styles.Prompt.Render("you> "), " ")

		if !scanner.Scan() {
			// EOF (Ctrl+D)
			fmt.Println()
			fmt.Println(styles.System.Render("Goodbye."))
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input, a, styles) {
				break
			}
			continue
		}

		answer, err := a.Agent.Ask(ctx, input)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				fmt.Println(styles.System.Render("Interrupted."))
				break
			}
			fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("error: %v", err)))
			continue
		}

		fmt.Println(styles.Assistant.Render("bridgechat>"))
		fmt.Println(renderer.Render(answer))
		fmt.Println()
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

// handleCommand handles slash commands, returns true if the loop should exit.
func handleCommand(input string, a *app.App, styles ui.Styles) bool {
	switch strings.Fields(input)[0] {
	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /help            Show this help")
		fmt.Println("  /clear           Clear conversation history")
		fmt.Println("  /version         Show version")
		fmt.Println("  /exit, /quit     Exit")
		fmt.Println()
		fmt.Println("Example queries:")
		fmt.Println("  What are the identifiers for the TP53 gene?")
		fmt.Println("  Find mappings for the chemical compound Aspirin")
		fmt.Println("  Map the Ensembl ID ENSG00000139618 to other databases")
		fmt.Println()

	case "/clear":
		a.Agent.Reset()
		fmt.Println(styles.System.Render("Conversation history cleared."))
		fmt.Println()

	case "/version":
		fmt.Printf("bridgechat %s\n\n", AppVersion)

	case "/exit", "/quit":
		fmt.Println(styles.System.Render("Goodbye."))
		return true

	default:
		fmt.Printf("Unknown command: %s\n", input)
		fmt.Println("Type /help to see available commands")
		fmt.Println()
	}

	return false
}
