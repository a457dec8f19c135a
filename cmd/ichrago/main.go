package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ichrago/ichrago/internal/config"
	"github.com/ichrago/ichrago/internal/geography"
	"github.com/ichrago/ichrago/internal/output"
	"github.com/ichrago/ichrago/internal/quote"
	"github.com/ichrago/ichrago/internal/rating"
	"github.com/ichrago/ichrago/internal/refdata"
	"github.com/ichrago/ichrago/internal/subsidy"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ichrago",
	Short: "ICHRA quoting and premium rating engine",
	Long: "Prices marketplace health plans against government rate extracts and quotes\n" +
		"employer groups switching from group coverage to an ICHRA.",
	SilenceUsage: true,
}

var quoteCmd = &cobra.Command{
	Use:   "quote [request-file]",
	Short: "Quote a group from a YAML request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		logger, err := buildLogger(settings.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		parser := config.NewInputParser()
		req, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		policy, err := config.LoadPolicy(settings.PolicyFile)
		if err != nil {
			return err
		}

		store := refdata.NewStore(settings.DataDir, logger)
		if err := store.Load(); err != nil {
			return fmt.Errorf("loading reference data: %w", err)
		}

		resolver := geography.NewResolver(store, nil, logger)
		store.OnReload(resolver.InvalidateCache)

		orch := quote.NewOrchestrator(
			store,
			resolver,
			rating.NewPremiumCalculator(store, req.AsOf, logger),
			subsidy.NewSubsidyEngineWithConfig(policy, logger),
			quote.WithWorkers(settings.Workers),
			quote.WithLogger(logger),
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), settings.Timeout)
		defer cancel()

		result, err := orch.QuoteGroup(ctx, &req.Group, req.Filters)
		if err != nil {
			return err
		}

		formatter := output.GetFormatterByName(settings.Format)
		if formatter == nil {
			return fmt.Errorf("unknown format %q, available: %v", settings.Format, output.AvailableFormats())
		}
		rendered, err := formatter.Format(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, rendered)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "ichrago %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, "go:", bi.GoVersion)
		}
	},
}

// resolveSettings layers configuration: defaults, then the optional settings
// file with environment overrides, then any flags set on the command.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	settingsFile, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(settingsFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("data") {
		settings.DataDir, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("policy-config") {
		settings.PolicyFile, _ = cmd.Flags().GetString("policy-config")
	}
	if cmd.Flags().Changed("workers") {
		settings.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("timeout") {
		settings.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("format") {
		settings.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("log-level") {
		settings.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return settings, nil
}

// buildLogger creates the process logger writing to stderr so formatted
// results own stdout.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// openStore loads reference data for the lookup subcommands, which take the
// data directory straight from their flag.
func openStore(cmd *cobra.Command) (*refdata.Store, *zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := buildLogger(level)
	if err != nil {
		return nil, nil, err
	}
	dataDir, _ := cmd.Flags().GetString("data")
	store := refdata.NewStore(dataDir, logger)
	if err := store.Load(); err != nil {
		return nil, nil, fmt.Errorf("loading reference data: %w", err)
	}
	return store, logger, nil
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "./data", "Directory holding the reference CSV extracts")
	cmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func init() {
	quoteCmd.Flags().String("settings", "", "Settings YAML file (environment variables override it)")
	quoteCmd.Flags().String("data", "./data", "Directory holding the reference CSV extracts")
	quoteCmd.Flags().String("policy-config", "", "Policy table override YAML (poverty guidelines, percentages)")
	quoteCmd.Flags().String("format", "table", "Output format (table, json, csv)")
	quoteCmd.Flags().Int("workers", quote.DefaultWorkers, "Concurrent member pipelines")
	quoteCmd.Flags().Duration("timeout", 30*time.Second, "Deadline for the whole group quote")
	quoteCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(subsidyCmd)
	rootCmd.AddCommand(affordabilityCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
