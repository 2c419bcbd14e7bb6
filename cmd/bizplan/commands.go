package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/form"
	"github.com/kingrea/bizplan/internal/report"
	"github.com/kingrea/bizplan/internal/summary"
)

func initCmd(projectDir *string) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the .bizplan directory and config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveProject(*projectDir)
			if err != nil {
				return err
			}
			if err := config.InitDir(dir); err != nil {
				return fmt.Errorf("init .bizplan: %w", err)
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			if backend != "" {
				if err := cfg.SetStorageBackend(backend); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s (storage: %s)\n", cfg.BizplanProjectDir, cfg.StorageBackend())
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "draft storage backend (file, sqlite)")
	return cmd
}

func statusCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show draft progress and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			doc := p.session.Document()
			fmt.Fprintln(out, "bizplan status")
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Project:   %s\n", p.cfg.ProjectDir)
			fmt.Fprintf(out, "  Storage:   %s\n", p.cfg.StorageBackend())
			fmt.Fprintf(out, "  Summary:   %s\n", configuredLabel(p.client.Configured()))
			fmt.Fprintln(out)
			if !p.session.Restored() {
				fmt.Fprintln(out, "  Draft:     none")
				return nil
			}
			fmt.Fprintf(out, "  Draft:     %s (%s)\n", valueOr(doc.Name, "unnamed"), valueOr(doc.Date, "no date"))
			fmt.Fprintf(out, "  Filled:    %d fields\n", doc.FilledCount())
			if err := form.Validate(&doc); err != nil {
				fmt.Fprintf(out, "  Missing:   %v\n", err)
			}
			return nil
		},
	}
}

func exportCmd(projectDir *string) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved draft as a printable HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			dir := outDir
			if dir == "" {
				dir = p.cfg.ExportsDir()
			}
			path, err := report.WriteFile(dir, p.session.Document())
			if err != nil {
				return err
			}
			p.log.Info("report exported to %s", path)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to .bizplan/exports)")
	return cmd
}

func summarizeCmd(projectDir *string) *cobra.Command {
	var transcriptPath string
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Request an AI analysis of the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			transcript := ""
			if transcriptPath != "" {
				data, err := os.ReadFile(transcriptPath)
				if err != nil {
					return fmt.Errorf("read transcript: %w", err)
				}
				transcript = string(data)
			}
			narrative, err := p.session.Submit(context.Background(), transcript)
			if err != nil {
				var verrs form.ValidationErrors
				if errors.As(err, &verrs) {
					return err
				}
				if errors.Is(err, summary.ErrNotConfigured) {
					return fmt.Errorf("%w (set %s)", err, p.cfg.Project.Summary.APIKeyEnv)
				}
				return fmt.Errorf("the form was saved but no analysis was generated: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), narrative)
			return nil
		},
	}
	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "meeting transcript file to include")
	return cmd
}

func clearCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			p.session.Clear()
			if err := p.store.LastError(); err != nil {
				return fmt.Errorf("clear draft: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Draft cleared.")
			return nil
		},
	}
}

func tokensCmd(projectDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "Show estimated token usage of past summary requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(projectDir)
			if err != nil {
				return err
			}
			defer p.Close()

			entries, err := p.ledger.Entries()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No summary requests recorded.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  form=%d transcript=%d total=%d\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.FormTokens, e.TranscriptTokens, e.TotalTokens)
			}
			fmt.Fprintf(out, "%d requests, ~%d tokens (ledger: %s)\n",
				len(entries), summary.TotalTokens(entries), filepath.Base(p.cfg.UsageLedgerPath()))
			return nil
		},
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
