package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/genmix/internal/shared"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.Handler) (*SpotifyClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewSpotifyClient(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
		"redirect_uri":  "http://localhost:8080/callback",
	})
	if err != nil {
		t.Fatalf("NewSpotifyClient failed: %v", err)
	}
	client.baseURL = server.URL
	client.SetToken(&oauth2.Token{
		AccessToken: "test-token",
		Expiry:      time.Now().Add(time.Hour),
	})
	return client, server
}

func TestNewSpotifyClient(t *testing.T) {
	t.Run("requires client credentials", func(t *testing.T) {
		_, err := NewSpotifyClient(map[string]string{"redirect_uri": "http://localhost/cb"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("requires redirect uri", func(t *testing.T) {
		_, err := NewSpotifyClient(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("builds auth url with state", func(t *testing.T) {
		client, err := NewSpotifyClient(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
			"redirect_uri":  "http://localhost:8080/callback",
		})
		if err != nil {
			t.Fatalf("NewSpotifyClient failed: %v", err)
		}

		authURL := client.AuthURL("nonce123")
		for _, want := range []string{
			"accounts.spotify.com/authorize",
			"state=nonce123",
			"client_id=id",
			"redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fcallback",
		} {
			if !strings.Contains(authURL, want) {
				t.Errorf("auth url missing %q: %s", want, authURL)
			}
		}
	})
}

func TestListTopArtists(t *testing.T) {
	t.Run("decodes artists with genres", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/top/artists" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "20" {
				t.Errorf("expected limit=20, got %s", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("expected bearer header, got %q", got)
			}
			w.Write([]byte(`{"items":[
				{"id":"a1","name":"Alcest","genres":["blackgaze","post-metal"]},
				{"id":"a2","name":"Slowdive","genres":["shoegaze","dream pop"]}
			]}`))
		}))

		artists, err := client.ListTopArtists(context.Background(), 20)
		if err != nil {
			t.Fatalf("ListTopArtists failed: %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].ID != "a1" || artists[0].Name != "Alcest" {
			t.Errorf("unexpected first artist: %+v", artists[0])
		}
		if len(artists[1].Genres) != 2 || artists[1].Genres[0] != "shoegaze" {
			t.Errorf("unexpected genres: %v", artists[1].Genres)
		}
	})

	t.Run("rejects items missing ids", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"items":[{"name":"nameless"}]}`))
		}))

		_, err := client.ListTopArtists(context.Background(), 5)
		if !errors.Is(err, shared.ErrSchema) {
			t.Errorf("expected ErrSchema, got %v", err)
		}
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("expected SchemaError, got %T", err)
		}
		if schemaErr.Field != "items[].id" {
			t.Errorf("unexpected field %q", schemaErr.Field)
		}
	})

	t.Run("surfaces error status and body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"status":429,"message":"rate limited"}}`))
		}))

		_, err := client.ListTopArtists(context.Background(), 5)
		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Errorf("expected ErrCatalogRequest, got %v", err)
		}
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("expected RequestError, got %T", err)
		}
		if reqErr.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", reqErr.StatusCode)
		}
		if !strings.Contains(reqErr.Body, "rate limited") {
			t.Errorf("expected body preserved, got %q", reqErr.Body)
		}
	})

	t.Run("fails without a token", func(t *testing.T) {
		client, err := NewSpotifyClient(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
			"redirect_uri":  "http://localhost/cb",
		})
		if err != nil {
			t.Fatalf("NewSpotifyClient failed: %v", err)
		}

		_, err = client.ListTopArtists(context.Background(), 5)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestListTopTracks(t *testing.T) {
	t.Run("preserves ranking order and converts durations", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/artists/a1/top-tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("market"); got != "US" {
				t.Errorf("expected market=US, got %s", got)
			}
			w.Write([]byte(`{"tracks":[
				{"uri":"spotify:track:t1","name":"First","duration_ms":215000,"artists":[{"id":"a1"}]},
				{"uri":"spotify:track:t2","name":"Second","duration_ms":187500,"artists":[{"id":"a1"}]}
			]}`))
		}))

		tracks, err := client.ListTopTracks(context.Background(), "a1", "US")
		if err != nil {
			t.Fatalf("ListTopTracks failed: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].URI != "spotify:track:t1" || tracks[1].URI != "spotify:track:t2" {
			t.Errorf("ranking order not preserved: %+v", tracks)
		}
		if tracks[0].DurationSeconds != 215 {
			t.Errorf("expected 215s, got %d", tracks[0].DurationSeconds)
		}
		if tracks[0].ArtistID != "a1" {
			t.Errorf("expected artist a1, got %s", tracks[0].ArtistID)
		}
	})
}

func TestSearchArtistsByGenre(t *testing.T) {
	t.Run("sends genre-scoped query", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "genre:shoegaze" {
				t.Errorf("expected genre query, got %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "artist" {
				t.Errorf("expected type=artist, got %q", got)
			}
			if got := r.URL.Query().Get("limit"); got != "10" {
				t.Errorf("expected limit=10, got %q", got)
			}
			w.Write([]byte(`{"artists":{"items":[{"id":"a9","name":"Ride","genres":["shoegaze"]}]}}`))
		}))

		artists, err := client.SearchArtistsByGenre(context.Background(), "shoegaze", 10)
		if err != nil {
			t.Fatalf("SearchArtistsByGenre failed: %v", err)
		}
		if len(artists) != 1 || artists[0].ID != "a9" {
			t.Errorf("unexpected result: %+v", artists)
		}
	})
}

func TestTrackDuration(t *testing.T) {
	t.Run("converts milliseconds to whole seconds", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/tracks/t1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"uri":"spotify:track:t1","duration_ms":199999}`))
		}))

		secs, err := client.TrackDuration(context.Background(), "t1")
		if err != nil {
			t.Fatalf("TrackDuration failed: %v", err)
		}
		if secs != 199 {
			t.Errorf("expected 199, got %d", secs)
		}
	})

	t.Run("rejects missing duration", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"uri":"spotify:track:t1"}`))
		}))

		_, err := client.TrackDuration(context.Background(), "t1")
		if !errors.Is(err, shared.ErrSchema) {
			t.Errorf("expected ErrSchema, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("resolves the user then creates", func(t *testing.T) {
		var paths []string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			switch r.URL.Path {
			case "/me":
				w.Write([]byte(`{"id":"user1","display_name":"Tester"}`))
			case "/users/user1/playlists":
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				w.Write([]byte(`{"id":"pl1","name":"Genre Mix"}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))

		playlistID, err := client.CreatePlaylist(context.Background(), "Genre Mix")
		if err != nil {
			t.Fatalf("CreatePlaylist failed: %v", err)
		}
		if playlistID != "pl1" {
			t.Errorf("expected pl1, got %s", playlistID)
		}
		if len(paths) != 2 {
			t.Errorf("expected 2 requests, got %v", paths)
		}
	})

	t.Run("tags write failures as publish errors", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/me" {
				w.Write([]byte(`{"id":"user1"}`))
				return
			}
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"insufficient scope"}}`))
		}))

		_, err := client.CreatePlaylist(context.Background(), "Genre Mix")
		if !errors.Is(err, shared.ErrPublish) {
			t.Errorf("expected ErrPublish, got %v", err)
		}
	})
}

func TestAddTracksToPlaylist(t *testing.T) {
	t.Run("empty list skips the network", func(t *testing.T) {
		requests := 0
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))

		added, err := client.AddTracksToPlaylist(context.Background(), "pl1", nil)
		if err != nil {
			t.Fatalf("AddTracksToPlaylist failed: %v", err)
		}
		if added {
			t.Error("expected added=false for empty list")
		}
		if requests != 0 {
			t.Errorf("expected 0 requests, got %d", requests)
		}
	})

	t.Run("submits all uris in one batch", func(t *testing.T) {
		requests := 0
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if r.URL.Path != "/playlists/pl1/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"snapshot_id":"snap"}`))
		}))

		added, err := client.AddTracksToPlaylist(context.Background(), "pl1", []string{"spotify:track:t1", "spotify:track:t2"})
		if err != nil {
			t.Fatalf("AddTracksToPlaylist failed: %v", err)
		}
		if !added {
			t.Error("expected added=true")
		}
		if requests != 1 {
			t.Errorf("expected 1 request, got %d", requests)
		}
	})
}
