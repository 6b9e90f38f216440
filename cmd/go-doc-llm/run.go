package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/romiras/go-doc-llm/internal/ai"
	"github.com/romiras/go-doc-llm/internal/annotate"
	"github.com/romiras/go-doc-llm/internal/cache"
	"github.com/romiras/go-doc-llm/internal/config"
)

// loadConfig reads the config file and environment, then applies any
// flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides cfg with flags the user set explicitly
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("provider") {
		cfg.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("style") {
		cfg.Style, _ = flags.GetString("style")
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend, _ = flags.GetString("cache")
	}
	if flags.Changed("exported-only") {
		cfg.ExportedOnly, _ = flags.GetBool("exported-only")
	}
}

// run wires the completion provider, cache and annotator for one file
func run(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	completer, err := ai.NewCompleter(ctx, cfg.ProviderConfig())
	if err != nil {
		return fmt.Errorf("failed to create %s completer: %w", cfg.Provider, err)
	}

	store, err := cache.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "%s Using %s (%s), %s cache\n", cyan("→"), cfg.Provider, cfg.ResolvedModel(), cfg.Cache.Backend)

	synth, err := ai.NewSynthesizer(&ai.Config{
		Completer: completer,
		Store:     store,
		Gate:      ai.NewGate(cfg.RequestInterval, cfg.MaxInFlight),
		Model:     cfg.ResolvedModel(),
		MaxTokens: cfg.MaxTokens,
		KeyPrefix: cfg.Cache.Prefix,
		KeyMode:   cache.KeyMode(cfg.Cache.KeyMode),
		TTL:       cfg.Cache.TTL,
		Out:       out,
	})
	if err != nil {
		return err
	}

	annotator, err := annotate.NewAnnotator(synth, annotate.Options{
		Style:        annotate.Style(cfg.Style),
		ExportedOnly: cfg.ExportedOnly,
		Warnings:     out,
	})
	if err != nil {
		return err
	}

	outputPath, result, err := annotator.AnnotateFile(ctx, path)
	if err != nil {
		return err
	}

	stats := synth.Stats()
	fmt.Fprintf(out, "%s Documentation added to %s\n", green("✓"), outputPath)
	fmt.Fprintf(out, "  documented: %d, already documented: %d, cache hits: %d, completions: %d\n",
		len(result.Documented), result.AlreadyDocumented, stats.CacheHits, stats.Completions)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "  %s %d function(s) left undocumented\n", yellow("⚠"), len(result.Skipped))
	}
	return nil
}
