package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avdwerff/bridgechat/internal/config"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("BridgeChat %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Println()

	// Configuration summary; mapping-level validation only so version
	// works without an API key.
	cfg, err := config.LoadMapping()
	if err != nil {
		fmt.Printf("Configuration: unavailable (%v)\n", err)
		return nil
	}

	fmt.Println("Configuration:")
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Model: %s\n", cfg.FullModelName())
	fmt.Printf("  BridgeDB: %s\n", cfg.BridgeDBBaseURL)
	fmt.Printf("  PubChem: %s\n", cfg.PubChemBaseURL)
	fmt.Printf("  Default species: %s\n", cfg.DefaultSpecies)

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey != "" {
		fmt.Println("  GEMINI_API_KEY: configured")
	} else {
		fmt.Println("  GEMINI_API_KEY: not set (required for chat and ask)")
	}

	return nil
}
