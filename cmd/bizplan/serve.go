package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/bizplan/internal/draft"
	"github.com/kingrea/bizplan/internal/logging"
	"github.com/kingrea/bizplan/internal/planner"
	"github.com/kingrea/bizplan/internal/server"
)

func serveCmd(projectDir *string) *cobra.Command {
	var (
		host   string
		port   int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the draft, report, and summary over HTTP",
		Long: `Start the local HTTP API.

Examples:
  bizplan serve
  bizplan serve --port 9000
  BIZPLAN_SERVER_PORT=9000 bizplan serve
  bizplan serve --dry-run    # drafts live in memory only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			httpLog, err := logging.New(p.cfg)
			if err != nil {
				return err
			}
			defer httpLog.Close()

			settings := server.SettingsFromConfig(p.cfg)
			if cmd.Flags().Changed("host") {
				settings.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := newServer(p, settings, dryRun, httpLog)
			if err := srv.Start(ctx); err != nil {
				return err
			}
			p.log.Info("serving on %s", srv.BaseURL())
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s (ctrl+c to stop)\n", srv.BaseURL())

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			p.log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "bind host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "bind port (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep drafts in memory and leave the saved draft untouched")
	return cmd
}

// newServer wires the HTTP server to the project's draft, or to a fresh
// in-memory draft when dryRun is set.
func newServer(p *project, settings server.Settings, dryRun bool, logger server.Logger) *server.Server {
	session, store := p.session, p.store
	if dryRun {
		store = draft.NewStore(draft.NewMemoryBackend(), p.log)
		session = planner.Open(store, planner.WithSummarizer(p.client), planner.WithLogbook(p.log))
		p.log.Info("dry run: drafts are kept in memory")
	}
	return server.New(settings, session, store, server.WithLogger(logger))
}
