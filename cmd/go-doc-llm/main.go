package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-doc-llm [flags] <file.go>",
	Short: "Add LLM-written doc comments to undocumented Go functions",
	Long: `Parse a Go source file, ask a language model to document every function
declaration that has no doc comment, and write the result next to the input
as <file.go>~new. The input file is never modified.

Responses are cached per function (Redis by default), so re-running on the
same file only calls the model for functions it has not seen.

Credentials are read from the provider's environment variable
(MISTRAL_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY) or GODOCLLM_API_KEY,
and may be kept in a .env file in the working directory.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("please provide the path to a Go source file")
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, args[0], os.Stdout)
	},
}

func init() {
	rootCmd.Flags().String("config", "", "Config file (default .go-doc-llm.yaml if present)")
	rootCmd.Flags().String("provider", "", "Completion provider: mistral, anthropic, gemini or stub")
	rootCmd.Flags().String("model", "", "Model name (default depends on provider)")
	rootCmd.Flags().String("style", "", "Doc comment style: line or block")
	rootCmd.Flags().String("cache", "", "Cache backend: redis, sqlite, postgres or memory")
	rootCmd.Flags().Bool("exported-only", false, "Only document exported functions and methods")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		stop()
		os.Exit(1)
	}
}
