package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Curation.Market != "US" {
			t.Errorf("expected default market US, got %s", config.Curation.Market)
		}
		if config.Curation.TopArtistsLimit != 20 {
			t.Errorf("expected top artists limit 20, got %d", config.Curation.TopArtistsLimit)
		}
		if config.Curation.SearchLimit != 10 {
			t.Errorf("expected search limit 10, got %d", config.Curation.SearchLimit)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", config.Server.Port)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("round trips through SaveConfig", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			config := DefaultConfig()
			config.Credentials.Spotify.ClientID = "abc"
			config.Credentials.Spotify.ClientSecret = "secret"
			config.Database.Path = "curation.db"

			if err := SaveConfig(path, config); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if loaded.Credentials.Spotify.ClientID != "abc" {
				t.Errorf("expected client_id abc, got %s", loaded.Credentials.Spotify.ClientID)
			}
			if loaded.Database.Path != "curation.db" {
				t.Errorf("expected database path curation.db, got %s", loaded.Database.Path)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for invalid TOML")
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("writes embedded template", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("failed to create config file: %v", err)
			}

			if _, err := LoadConfig(path); err != nil {
				t.Errorf("created config should parse: %v", err)
			}
		})

		t.Run("refuses to overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(""), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when config already exists")
			}
		})
	})

	t.Run("SpotifyConfig Map", func(t *testing.T) {
		sc := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost:8080/callback"}
		m := sc.Map()

		if m["client_id"] != "id" || m["client_secret"] != "secret" {
			t.Error("expected credentials in map form")
		}
		if m["redirect_uri"] != "http://localhost:8080/callback" {
			t.Errorf("expected redirect_uri in map, got %s", m["redirect_uri"])
		}
	})
}
