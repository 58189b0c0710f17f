package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/genmix/internal/models"
)

func historyFixture() []*models.CurationRun {
	first := models.NewCurationRun(1, "pl1", "Gaze Mix", []string{"shoegaze", "dream pop"}, "personalized", 12, 2715)
	first.SetID("run1")
	second := models.NewCurationRun(2, "pl2", "Jazz Discoveries", []string{"jazz"}, "discover", 8, 0)
	second.SetID("run2")
	return []*models.CurationRun{first, second}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(historyFixture())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Sequence,Name,Playlist ID,Mode,Genres,Tracks,Duration,Created") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Gaze Mix") {
			t.Errorf("CSV missing run name")
		}
		if !strings.Contains(output, "shoegaze; dream pop") {
			t.Errorf("CSV missing genres")
		}
		if !strings.Contains(output, "45:15") {
			t.Errorf("CSV missing formatted duration, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(historyFixture())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Curation History") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "## Gaze Mix") {
			t.Errorf("Markdown missing run heading")
		}
		if !strings.Contains(output, "**Mode**: discover") {
			t.Errorf("Markdown missing mode")
		}
		if strings.Contains(output, "**Duration**: 0:00") {
			t.Errorf("Markdown should omit zero durations")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(historyFixture())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Curation history (2 runs)") {
			t.Errorf("text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. Gaze Mix [personalized]") {
			t.Errorf("text missing first run, got: %s", output)
		}
	})

	t.Run("ToRunJSON", func(t *testing.T) {
		data, err := ToRunJSON(historyFixture()[0])
		if err != nil {
			t.Fatalf("ToRunJSON failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{`"playlist_id": "pl1"`, `"mode": "personalized"`, `"track_count": 12`} {
			if !strings.Contains(output, want) {
				t.Errorf("JSON missing %s, got: %s", want, output)
			}
		}
	})
}

func TestFileWriters(t *testing.T) {
	runs := historyFixture()

	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		path, err := WriteCSVExport(runs, base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if path != base+"_history.csv" {
			t.Errorf("unexpected path %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "Gaze Mix") {
			t.Error("written CSV missing run data")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		path, err := WriteMarkdownExport(runs, base)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "# Curation History") {
			t.Error("written Markdown missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		path, err := WriteTextExport(runs, base)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "Jazz Discoveries") {
			t.Error("written text missing run data")
		}
	})
}
