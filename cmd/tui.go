package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"github.com/veltzer/tubekit/internal/shared"
	"github.com/veltzer/tubekit/internal/tasks"
	"github.com/veltzer/tubekit/internal/ui"
)

// tuiCommand returns the top-level TUI command for interactive cleanup.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive"},
		Usage:   "Launch interactive TUI for playlist cleanup",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dedup", Usage: "Remove duplicate videos", Value: true},
			&cli.BoolFlag{Name: "deleted", Usage: "Remove deleted videos", Value: true},
			&cli.BoolFlag{Name: "privatized", Usage: "Remove privatized videos"},
		},
		Action: r.TUI,
	}
}

// TUI launches the interactive terminal UI for playlist cleanup.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tubekit-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, client, err := r.reconciler(ctx)
	if err != nil {
		return err
	}

	opts := tasks.CleanupOpts{
		Dedup:      cmd.Bool("dedup"),
		Deleted:    cmd.Bool("deleted"),
		Privatized: cmd.Bool("privatized"),
	}

	model := ui.NewModel(ctx, client, engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
