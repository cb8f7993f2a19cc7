package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spektr-org/bugdash/config"
	"github.com/spektr-org/bugdash/dataset"
	"github.com/spektr-org/bugdash/engine"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	fs      afero.Fs
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	loader  *dataset.Loader
}

// appKey is used to store the app in the command context.
type appKey struct{}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "bugdash",
		Short: "bugdash - bug report analytics",
		Long: `bugdash loads a CSV of software bug reports and explores it by severity
and bug domain, either as an interactive web dashboard or as a terminal report.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			// Subcommand flags that map to config keys live on the
			// subcommand's own flag set, so load from the merged set.
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			a.loader = dataset.NewLoader(a.fs, dataset.WithLogger(a.logger))

			ctx := config.WithLogger(cmd.Context(), a.logger)
			ctx = context.WithValue(ctx, appKey{}, a)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./bugdash.yaml)")
	rootCmd.PersistentFlags().String("data", config.DefaultDataPath, "Path to the bug-report CSV")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// getApp retrieves the app from the command context.
func getApp(ctx context.Context) (*app, error) {
	if a, ok := ctx.Value(appKey{}).(*app); ok && a.cfg != nil {
		return a, nil
	}
	return nil, fmt.Errorf("configuration not loaded")
}

// load reads the configured dataset through the shared loader.
func (a *app) load() (engine.RecordView, error) {
	view, err := a.loader.Load(a.cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return view, nil
}

// engineOptions maps dashboard config onto pipeline options.
func (a *app) engineOptions() []engine.Option {
	return []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithTopCategories(a.cfg.Dashboard.TopCategories),
		engine.WithKPISeverities(a.cfg.Dashboard.KPISeverities...),
	}
}
