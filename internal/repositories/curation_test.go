package repositories

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func newTestRun(playlistID, name string, genres []string, mode string) *models.CurationRun {
	return models.NewCurationRun(0, playlistID, name, genres, mode, 12, 2400)
}

func TestCurationRepositoryCreate(t *testing.T) {
	t.Run("assigns id and sequence", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))

		first := newTestRun("pl1", "Gaze Mix", []string{"shoegaze"}, "personalized")
		if err := repo.Create(first); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if first.ID() == "" {
			t.Error("expected generated ID")
		}

		second := newTestRun("pl2", "Jazz Mix", []string{"jazz"}, "discover")
		if err := repo.Create(second); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(second.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Sequence() != 2 {
			t.Errorf("expected sequence 2, got %d", got.Sequence())
		}
	})

	t.Run("rejects invalid runs", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))

		invalid := newTestRun("", "No Playlist", []string{"jazz"}, "personalized")
		if err := repo.Create(invalid); err == nil {
			t.Error("expected validation error for missing playlist id")
		}
	})
}

func TestCurationRepositoryGet(t *testing.T) {
	t.Run("round-trips genres and totals", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))

		run := newTestRun("pl1", "Mixed", []string{"shoegaze", "dream pop"}, "fill")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.PlaylistID() != "pl1" || got.Name() != "Mixed" || got.Mode() != "fill" {
			t.Errorf("unexpected run: %+v", got)
		}
		if strings.Join(got.Genres(), ",") != "shoegaze,dream pop" {
			t.Errorf("unexpected genres: %v", got.Genres())
		}
		if got.TrackCount() != 12 || got.DurationSeconds() != 2400 {
			t.Errorf("unexpected totals: %d tracks, %ds", got.TrackCount(), got.DurationSeconds())
		}
	})

	t.Run("preserves the stored creation time", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))

		created := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
		run := newTestRun("pl-old", "Archive", []string{"jazz"}, "personalized")
		run.SetCreatedAt(created)
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.CreatedAt().Equal(created) {
			t.Errorf("expected creation time %v, got %v", created, got.CreatedAt())
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 1 || !all[0].CreatedAt().Equal(created) {
			t.Errorf("expected listed creation time %v, got %+v", created, all)
		}
	})

	t.Run("finds by playlist id", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))

		run := newTestRun("pl-find", "Find Me", []string{"jazz"}, "discover")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByPlaylistID("pl-find")
		if err != nil {
			t.Fatalf("GetByPlaylistID failed: %v", err)
		}
		if got.ID() != run.ID() {
			t.Errorf("expected run %s, got %s", run.ID(), got.ID())
		}
	})

	t.Run("missing run returns an error", func(t *testing.T) {
		repo := NewCurationRepository(setupTestDB(t))
		if _, err := repo.Get("no-such-id"); err == nil {
			t.Error("expected error for missing run")
		}
	})
}

func TestCurationRepositoryUpdate(t *testing.T) {
	repo := NewCurationRepository(setupTestDB(t))

	run := newTestRun("pl1", "Before", []string{"jazz"}, "personalized")
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	run.SetTrackCount(20)
	run.SetDurationSeconds(3600)
	if err := repo.Update(run); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.Get(run.ID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.TrackCount() != 20 || got.DurationSeconds() != 3600 {
		t.Errorf("update not persisted: %d tracks, %ds", got.TrackCount(), got.DurationSeconds())
	}
}

func TestCurationRepositoryDelete(t *testing.T) {
	repo := NewCurationRepository(setupTestDB(t))

	run := newTestRun("pl1", "Doomed", []string{"doom metal"}, "personalized")
	if err := repo.Create(run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(run.ID()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(run.ID()); err == nil {
		t.Error("expected soft-deleted run to be hidden")
	}
	if err := repo.Delete(run.ID()); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestCurationRepositoryList(t *testing.T) {
	repo := NewCurationRepository(setupTestDB(t))

	runs := []*models.CurationRun{
		newTestRun("pl1", "First", []string{"shoegaze"}, "personalized"),
		newTestRun("pl2", "Second", []string{"jazz"}, "discover"),
		newTestRun("pl3", "Third", []string{"shoegaze", "jazz"}, "discover"),
	}
	for _, run := range runs {
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("orders by sequence", func(t *testing.T) {
		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(all))
		}
		if all[0].Name() != "First" || all[2].Name() != "Third" {
			t.Errorf("unexpected order: %s, %s, %s", all[0].Name(), all[1].Name(), all[2].Name())
		}
	})

	t.Run("filters by mode", func(t *testing.T) {
		discovered, err := repo.List(map[string]any{"mode": "discover"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(discovered) != 2 {
			t.Errorf("expected 2 discover runs, got %d", len(discovered))
		}
	})

	t.Run("filters by genre", func(t *testing.T) {
		gaze, err := repo.List(map[string]any{"genre": "shoegaze"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(gaze) != 2 {
			t.Errorf("expected 2 shoegaze runs, got %d", len(gaze))
		}
	})

	t.Run("excludes soft-deleted runs", func(t *testing.T) {
		if err := repo.Delete(runs[0].ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 runs after delete, got %d", len(all))
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "curation_runs")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}
