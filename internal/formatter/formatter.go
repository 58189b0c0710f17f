// package formatter provides functions to export curation history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/shared"
)

// ExportToCSV converts curation runs to CSV format with columns: Sequence, Name, Playlist ID, Mode, Genres, Tracks, Duration, Created
func ExportToCSV(runs []*models.CurationRun) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Name", "Playlist ID", "Mode", "Genres", "Tracks", "Duration", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			strconv.Itoa(run.Sequence()),
			run.Name(),
			run.PlaylistID(),
			run.Mode(),
			strings.Join(run.Genres(), "; "),
			strconv.Itoa(run.TrackCount()),
			shared.FormatDuration(run.DurationSeconds()),
			run.CreatedAt().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts curation runs to a Markdown history report
func ExportToMarkdown(runs []*models.CurationRun) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Curation History\n\n")
	buf.WriteString(fmt.Sprintf("**Runs**: %d\n\n", len(runs)))

	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("## %s\n\n", run.Name()))
		buf.WriteString(fmt.Sprintf("- **Playlist**: %s\n", run.PlaylistID()))
		buf.WriteString(fmt.Sprintf("- **Mode**: %s\n", run.Mode()))
		buf.WriteString(fmt.Sprintf("- **Genres**: %s\n", strings.Join(run.Genres(), ", ")))
		buf.WriteString(fmt.Sprintf("- **Tracks**: %d\n", run.TrackCount()))
		if run.DurationSeconds() > 0 {
			buf.WriteString(fmt.Sprintf("- **Duration**: %s\n", shared.FormatDuration(run.DurationSeconds())))
		}
		buf.WriteString(fmt.Sprintf("- **Created**: %s\n\n", run.CreatedAt().Format("2006-01-02 15:04")))
	}

	return buf.Bytes(), nil
}

// ExportToText converts curation runs to plain text format
func ExportToText(runs []*models.CurationRun) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Curation history (%d runs)\n\n", len(runs)))

	for i, run := range runs {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] %s - %d tracks",
			i+1, run.Name(), run.Mode(), strings.Join(run.Genres(), ", "), run.TrackCount()))
		if run.DurationSeconds() > 0 {
			buf.WriteString(fmt.Sprintf(" (%s)", shared.FormatDuration(run.DurationSeconds())))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToRunJSON generates a JSON representation of a single run's metadata
func ToRunJSON(run *models.CurationRun) ([]byte, error) {
	payload := map[string]any{
		"id":               run.ID(),
		"playlist_id":      run.PlaylistID(),
		"name":             run.Name(),
		"genres":           run.Genres(),
		"mode":             run.Mode(),
		"track_count":      run.TrackCount(),
		"duration_seconds": run.DurationSeconds(),
		"created_at":       run.CreatedAt(),
	}
	return shared.MarshalJSON(payload, true)
}

// WriteCSVExport writes the curation history to {base}_history.csv.
//
// The base defaults to "curation" when empty.
func WriteCSVExport(runs []*models.CurationRun, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "curation"
	}

	csvData, err := ExportToCSV(runs)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	historyFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(historyFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return historyFile, nil
}

// WriteMarkdownExport writes the curation history to {base}_history.md.
func WriteMarkdownExport(runs []*models.CurationRun, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "curation"
	}

	mdData, err := ExportToMarkdown(runs)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	historyFile := baseFilepath + "_history.md"
	if err := os.WriteFile(historyFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return historyFile, nil
}

// WriteTextExport writes the curation history to {base}_history.txt.
func WriteTextExport(runs []*models.CurationRun, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "curation"
	}

	textData, err := ExportToText(runs)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	historyFile := baseFilepath + "_history.txt"
	if err := os.WriteFile(historyFile, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return historyFile, nil
}
