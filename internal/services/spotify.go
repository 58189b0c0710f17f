package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// spotifyScopes covers profile reads, top-item reads, and playlist writes.
	spotifyScopes = "user-read-private user-read-email user-top-read playlist-modify-public playlist-modify-private"
)

// SpotifyClient implements [Catalog] against the Spotify Web API using the
// authorization code flow. The zero value is not usable; construct with
// [NewSpotifyClient] and call [SpotifyClient.Authenticate] before issuing
// catalog requests.
type SpotifyClient struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
}

var _ Catalog = (*SpotifyClient)(nil)

// NewSpotifyClient builds a client from the credential map produced by the
// configuration layer. The map must carry client_id, client_secret, and
// redirect_uri entries.
func NewSpotifyClient(credentials map[string]string) (*SpotifyClient, error) {
	clientID := credentials["client_id"]
	clientSecret := credentials["client_secret"]
	redirectURI := credentials["redirect_uri"]
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		return nil, fmt.Errorf("%w: spotify redirect_uri is required", shared.ErrMissingCredentials)
	}

	return &SpotifyClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       strings.Fields(spotifyScopes),
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}, nil
}

// OAuthConfig exposes the underlying oauth2 configuration for the
// authorization coordinator.
func (c *SpotifyClient) OAuthConfig() *oauth2.Config {
	return c.config
}

// AuthURL builds the user-facing authorization URL bound to the given state nonce.
func (c *SpotifyClient) AuthURL(state string) string {
	return c.config.AuthCodeURL(state)
}

// Authenticate exchanges an authorization code for an access token and
// retains it for subsequent catalog requests.
func (c *SpotifyClient) Authenticate(ctx context.Context, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	c.token = token
	return nil
}

// SetToken installs an already-obtained access token, primarily for tests.
func (c *SpotifyClient) SetToken(token *oauth2.Token) {
	c.token = token
}

// Authenticated reports whether the client holds a usable access token.
func (c *SpotifyClient) Authenticated() bool {
	return c.token != nil && c.token.Valid()
}

// doRequest issues a single authenticated request against the catalog.
// JSON bodies are marshaled from body when non-nil; successful responses
// are decoded into result when non-nil. Non-2xx responses become a
// [RequestError] carrying the raw body.
func (c *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.token == nil {
		return fmt.Errorf("%w: no access token held", shared.ErrAuthFailed)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrCatalogRequest, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := shared.ErrCatalogRequest
		if method == http.MethodPost || method == http.MethodPut {
			kind = shared.ErrPublish
		}
		return &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			kind:       kind,
		}
	}

	if result != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
	}
	return nil
}

type artistResource struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type trackResource struct {
	URI        string `json:"uri"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
	Artists    []struct {
		ID string `json:"id"`
	} `json:"artists"`
}

type topArtistsPage struct {
	Items []artistResource `json:"items"`
}

type topTracksPage struct {
	Items []trackResource `json:"items"`
}

type artistTopTracksResponse struct {
	Tracks []trackResource `json:"tracks"`
}

type searchResponse struct {
	Artists struct {
		Items []artistResource `json:"items"`
	} `json:"artists"`
}

type playlistResource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profileResource struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// CurrentUser fetches the authenticated user's profile.
func (c *SpotifyClient) CurrentUser(ctx context.Context) (id, displayName string, err error) {
	var profile profileResource
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &profile); err != nil {
		return "", "", err
	}
	if profile.ID == "" {
		return "", "", &SchemaError{Endpoint: "/me", Field: "id"}
	}
	return profile.ID, profile.DisplayName, nil
}

// ListTopArtists retrieves the user's top artists with their genre tags.
func (c *SpotifyClient) ListTopArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	endpoint := fmt.Sprintf("/me/top/artists?limit=%d", limit)
	var page topArtistsPage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(page.Items))
	for _, item := range page.Items {
		if item.ID == "" {
			return nil, &SchemaError{Endpoint: "/me/top/artists", Field: "items[].id"}
		}
		artists = append(artists, models.Artist{
			ID:     item.ID,
			Name:   item.Name,
			Genres: item.Genres,
		})
	}
	return artists, nil
}

// ListTopTrackURIs retrieves the URIs of the user's top tracks.
func (c *SpotifyClient) ListTopTrackURIs(ctx context.Context, limit int) ([]string, error) {
	endpoint := fmt.Sprintf("/me/top/tracks?limit=%d", limit)
	var page topTracksPage
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		if item.URI == "" {
			return nil, &SchemaError{Endpoint: "/me/top/tracks", Field: "items[].uri"}
		}
		uris = append(uris, item.URI)
	}
	return uris, nil
}

// ListTopTracks retrieves an artist's top tracks for the given market.
// The catalog's ranking order is preserved.
func (c *SpotifyClient) ListTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", artistID, url.QueryEscape(market))
	var resp artistTopTracksResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(resp.Tracks))
	for _, item := range resp.Tracks {
		if item.URI == "" {
			return nil, &SchemaError{Endpoint: "/artists/{id}/top-tracks", Field: "tracks[].uri"}
		}
		track := models.Track{
			URI:             item.URI,
			ArtistID:        artistID,
			Name:            item.Name,
			DurationSeconds: item.DurationMS / 1000,
		}
		if len(item.Artists) > 0 && item.Artists[0].ID != "" {
			track.ArtistID = item.Artists[0].ID
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// SearchArtistsByGenre searches the catalog for artists tagged with the genre.
func (c *SpotifyClient) SearchArtistsByGenre(ctx context.Context, genre string, limit int) ([]models.Artist, error) {
	query := url.Values{}
	query.Set("q", "genre:"+genre)
	query.Set("type", "artist")
	query.Set("limit", fmt.Sprintf("%d", limit))
	endpoint := "/search?" + query.Encode()

	var resp searchResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(resp.Artists.Items))
	for _, item := range resp.Artists.Items {
		if item.ID == "" {
			return nil, &SchemaError{Endpoint: "/search", Field: "artists.items[].id"}
		}
		artists = append(artists, models.Artist{
			ID:     item.ID,
			Name:   item.Name,
			Genres: item.Genres,
		})
	}
	return artists, nil
}

// TrackDuration retrieves a single track's duration in whole seconds.
func (c *SpotifyClient) TrackDuration(ctx context.Context, trackID string) (int, error) {
	endpoint := "/tracks/" + trackID
	var track trackResource
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &track); err != nil {
		return 0, err
	}
	if track.DurationMS <= 0 {
		return 0, &SchemaError{Endpoint: "/tracks/{id}", Field: "duration_ms"}
	}
	return track.DurationMS / 1000, nil
}

// CreatePlaylist creates an empty public playlist for the current user.
func (c *SpotifyClient) CreatePlaylist(ctx context.Context, name string) (string, error) {
	userID, _, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("/users/%s/playlists", userID)
	payload := map[string]any{
		"name":   name,
		"public": true,
	}
	var playlist playlistResource
	if err := c.doRequest(ctx, http.MethodPost, endpoint, payload, &playlist); err != nil {
		return "", err
	}
	if playlist.ID == "" {
		return "", &SchemaError{Endpoint: "/users/{id}/playlists", Field: "id"}
	}
	return playlist.ID, nil
}

// AddTracksToPlaylist submits all URIs in a single batch. An empty list is a
// no-op that reports false without touching the network.
func (c *SpotifyClient) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) (bool, error) {
	if len(uris) == 0 {
		return false, nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	payload := map[string]any{"uris": uris}
	if err := c.doRequest(ctx, http.MethodPost, endpoint, payload, nil); err != nil {
		return false, err
	}
	return true, nil
}
