package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genmix/internal/shared"
	"github.com/desertthunder/genmix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive curation workflow.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	mode := cmd.String("mode")
	switch mode {
	case ui.ModePersonalized, ui.ModeDiscover, ui.ModeFill:
	default:
		return fmt.Errorf("%w: unknown mode %q", shared.ErrInvalidInput, mode)
	}

	catalog, err := r.authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	model := ui.NewModel(ctx, r.newEngine(catalog), mode)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(*ui.Model); ok {
		values := m.Values()
		if result := m.Result(); result != nil && result.Created {
			r.recordRun(result.PlaylistID, result.PlaylistName, values.Genres, mode, len(result.TrackURIs), 0)
		}
		if fill := m.FillResult(); fill != nil && fill.Created {
			r.recordRun(fill.PlaylistID, fill.PlaylistName, values.Genres, mode, len(fill.TrackURIs), fill.TotalDuration)
		}
	}

	return nil
}
