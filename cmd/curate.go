package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/genmix/internal/shared"
	"github.com/desertthunder/genmix/internal/tasks"
	"github.com/desertthunder/genmix/internal/ui"
	"github.com/urfave/cli/v3"
)

// CurateNew builds a playlist from the user's top artists filtered by genre.
// With --discover, a second playlist of unfamiliar artists found by genre
// search is built after the personalized one publishes.
func (r *Runner) CurateNew(ctx context.Context, cmd *cli.Command) error {
	name, genres, err := r.resolveParams(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	engine := r.newEngine(catalog)
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	r.drainProgress(progress, done)

	result, err := engine.CuratePersonalized(ctx, progress, tasks.CurationParams{
		Name:            name,
		Genres:          genres,
		Size:            cmd.Int("size"),
		Market:          r.config.Curation.Market,
		TopArtistsLimit: r.config.Curation.TopArtistsLimit,
	})

	var discovery *tasks.CurationResult
	if err == nil && cmd.Bool("discover") {
		discovery, err = engine.DiscoverNewArtists(ctx, progress, tasks.DiscoveryParams{
			Name:        name + " Discoveries",
			Genres:      genres,
			SearchLimit: r.config.Curation.SearchLimit,
			Market:      r.config.Curation.Market,
		})
	}
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}

	if result.Created {
		r.recordRun(result.PlaylistID, result.PlaylistName, genres, ui.ModePersonalized, len(result.TrackURIs), 0)
	}
	if discovery != nil && discovery.Created {
		r.recordRun(discovery.PlaylistID, discovery.PlaylistName, genres, ui.ModeDiscover, len(discovery.TrackURIs), 0)
	}

	if cmd.Bool("json") {
		payload := map[string]any{"personalized": result}
		if discovery != nil {
			payload["discovery"] = discovery
		}
		return r.writeJSON(payload, true)
	}

	r.reportCuration(result)
	if discovery != nil {
		r.reportCuration(discovery)
	}
	return nil
}

// reportCuration prints a one-playlist summary including per-genre failures.
func (r *Runner) reportCuration(result *tasks.CurationResult) {
	if !result.Created {
		r.writePlain("No artists matched the requested genres for %q. Nothing was created.\n", result.PlaylistName)
		return
	}

	summary := fmt.Sprintf("✓ Created playlist %q (ID: %s) with %d tracks", result.PlaylistName, result.PlaylistID, len(result.TrackURIs))
	r.writePlain("%s\n", ui.DefaultPalette().Success(summary))

	for _, batch := range result.Batches {
		if batch.Err != nil {
			r.writePlain("  %s\n", ui.DefaultPalette().Warn(fmt.Sprintf("genre %q failed: %v", batch.Genre, batch.Err)))
		}
	}
	if len(result.TrackURIs) == 0 {
		r.writePlain("No matching tracks were found; the playlist is empty.\n")
	}
}

// CurateFill builds a playlist of matching tracks up to a target duration.
func (r *Runner) CurateFill(ctx context.Context, cmd *cli.Command) error {
	name, genres, err := r.resolveParams(cmd)
	if err != nil {
		return err
	}

	minutes := cmd.Int("minutes")
	if minutes <= 0 {
		return fmt.Errorf("%w: --minutes must be positive", shared.ErrInvalidInput)
	}

	catalog, err := r.authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	engine := r.newEngine(catalog)
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	r.drainProgress(progress, done)

	result, err := engine.FillToDuration(ctx, progress, tasks.FillParams{
		Name:          name,
		Genres:        genres,
		TargetSeconds: minutes * 60,
		Market:        r.config.Curation.Market,
		SearchLimit:   r.config.Curation.SearchLimit,
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("curation failed: %w", err)
	}

	if !result.Created {
		r.writePlain("No artists matched the requested genres. Nothing was created.\n")
		return nil
	}

	r.recordRun(result.PlaylistID, result.PlaylistName, genres, ui.ModeFill, len(result.TrackURIs), result.TotalDuration)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	summary := fmt.Sprintf(
		"✓ Created playlist %q (ID: %s) with %d tracks, %s of %s requested",
		result.PlaylistName,
		result.PlaylistID,
		len(result.TrackURIs),
		shared.FormatDuration(result.TotalDuration),
		shared.FormatDuration(result.TargetDuration),
	)
	r.writePlain("%s\n", ui.DefaultPalette().Success(summary))
	if result.SkippedNoLength > 0 {
		r.writePlain("Skipped %d tracks with unknown length\n", result.SkippedNoLength)
	}
	return nil
}

// CurateTop prints the URIs of the user's most played tracks.
func (r *Runner) CurateTop(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	uris, err := catalog.ListTopTrackURIs(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to fetch top tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(uris, true)
	}

	if len(uris) == 0 {
		r.writePlain("No top tracks found.\n")
		return nil
	}
	for _, uri := range uris {
		r.writePlain("%s\n", uri)
	}
	return nil
}

// resolveParams reads the playlist name and genre list from flags, prompting
// on stdin for anything missing.
func (r *Runner) resolveParams(cmd *cli.Command) (string, []string, error) {
	source := ui.NewStdinSource(r.input, r.output)

	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		answer, err := source.Prompt("Playlist name", "")
		if err != nil {
			return "", nil, err
		}
		name = answer
	}
	if name == "" {
		return "", nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	genres := []string{}
	for _, entry := range cmd.StringSlice("genres") {
		genres = append(genres, ui.SplitGenres(entry)...)
	}
	if len(genres) == 0 {
		answer, err := source.Prompt("Genres (comma-separated)", "")
		if err != nil {
			return "", nil, err
		}
		genres = ui.SplitGenres(answer)
	}
	if len(genres) == 0 {
		return "", nil, fmt.Errorf("%w: at least one genre is required", shared.ErrInvalidInput)
	}

	return name, genres, nil
}
