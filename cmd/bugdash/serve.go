package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spektr-org/bugdash/web"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Load the dataset once and serve the interactive dashboard.

Each browser keeps its own filter selection in a signed session cookie.
Prometheus metrics are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}

			view, err := a.load()
			if err != nil {
				return err
			}

			srv, err := web.NewServer(web.Config{
				Relation:        view,
				Addr:            a.cfg.Server.Addr,
				SessionSecret:   a.cfg.Server.SessionSecret,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				TopCategories:   a.cfg.Dashboard.TopCategories,
				KPISeverities:   a.cfg.Dashboard.KPISeverities,
				Palette:         a.cfg.Dashboard.Palette,
				Locale:          a.cfg.Dashboard.Locale,
				Logger:          a.logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "Address to listen on")
	cmd.Flags().String("session-secret", "", "Key used to sign session cookies")
	cmd.Flags().String("palette", "viridis", "Palette for the category chart (default|viridis|rocket)")
	cmd.Flags().String("locale", "en", "Locale for number formatting")
	return cmd
}
