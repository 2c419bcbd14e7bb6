// cmd/bizplan/main.go
//
// Entry point for the bizplan CLI. With no subcommand it opens the
// questionnaire TUI in the current directory; subcommands cover headless
// export, summaries, and the local HTTP API.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/bizplan/internal/config"
	"github.com/kingrea/bizplan/internal/tui"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var projectDir string
	cmd := &cobra.Command{
		Use:           "bizplan",
		Short:         "Business planning questionnaire with draft autosave and AI summaries",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveProject(projectDir)
			if err != nil {
				return err
			}
			return runTUI(dir)
		},
	}
	cmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "project directory (defaults to cwd)")

	cmd.AddCommand(initCmd(&projectDir))
	cmd.AddCommand(statusCmd(&projectDir))
	cmd.AddCommand(exportCmd(&projectDir))
	cmd.AddCommand(summarizeCmd(&projectDir))
	cmd.AddCommand(clearCmd(&projectDir))
	cmd.AddCommand(tokensCmd(&projectDir))
	cmd.AddCommand(serveCmd(&projectDir))
	return cmd
}

func runTUI(dir string) error {
	if err := config.InitDir(dir); err != nil {
		return fmt.Errorf("init .bizplan: %w", err)
	}
	app, err := tui.NewApp(dir)
	if err != nil {
		return err
	}
	defer app.Close()

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func resolveProject(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		dir = cwd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	return abs, nil
}
