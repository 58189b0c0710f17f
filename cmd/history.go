package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/genmix/internal/formatter"
	"github.com/desertthunder/genmix/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded curation runs, optionally filtered by mode or
// genre substring.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	criteria := map[string]any{}
	if mode := cmd.String("mode"); mode != "" {
		criteria["mode"] = mode
	}
	if genre := cmd.String("genre"); genre != "" {
		criteria["genre"] = genre
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list curation runs: %w", err)
	}

	if cmd.Bool("json") {
		for _, run := range runs {
			payload, err := formatter.ToRunJSON(run)
			if err != nil {
				return err
			}
			if err := r.writePlain("%s\n", payload); err != nil {
				return err
			}
		}
		return nil
	}

	if len(runs) == 0 {
		r.writePlain("No curation runs recorded.\n")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf(
			"%3d  %-24s  %-12s  %2d tracks  [%s]",
			run.Sequence(),
			run.Name(),
			run.Mode(),
			run.TrackCount(),
			strings.Join(run.Genres(), ", "),
		)
		if run.DurationSeconds() > 0 {
			line += "  " + shared.FormatDuration(run.DurationSeconds())
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// HistoryShow prints a single curation run looked up by playlist ID.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist-id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID argument is required", shared.ErrInvalidInput)
	}

	db, repo, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	run, err := repo.GetByPlaylistID(playlistID)
	if err != nil {
		return fmt.Errorf("no curation run for playlist %s: %w", playlistID, err)
	}

	payload, err := formatter.ToRunJSON(run)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", payload)
}

// HistoryExport writes curation history to a file in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputDir := cmd.String("output")

	db, repo, err := r.openHistory()
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runs, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list curation runs: %w", err)
	}

	base := filepath.Join(outputDir, "curation")

	var path string
	switch format {
	case "csv":
		path, err = formatter.WriteCSVExport(runs, base)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(runs, base)
	case "text", "txt":
		path, err = formatter.WriteTextExport(runs, base)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, format)
	}

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("✓ Exported %d runs to %s\n", len(runs), path)
	return nil
}
