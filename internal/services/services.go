package services

import (
	"context"

	"github.com/desertthunder/genmix/internal/models"
)

// Catalog defines the read and write operations the curation engine needs
// from the remote music service. All methods require prior authentication
// and perform a single attempt per call; transient upstream errors are
// surfaced, never retried.
type Catalog interface {
	// ListTopArtists retrieves the user's top artists in the service's own relevance order.
	ListTopArtists(ctx context.Context, limit int) ([]models.Artist, error)

	// ListTopTrackURIs retrieves the URIs of the user's top tracks.
	ListTopTrackURIs(ctx context.Context, limit int) ([]string, error)

	// ListTopTracks retrieves an artist's top tracks for the given market, in service-ranked order.
	ListTopTracks(ctx context.Context, artistID, market string) ([]models.Track, error)

	// SearchArtistsByGenre searches the catalog for artists tagged with the genre.
	SearchArtistsByGenre(ctx context.Context, genre string, limit int) ([]models.Artist, error)

	// TrackDuration retrieves a single track's duration in whole seconds.
	TrackDuration(ctx context.Context, trackID string) (int, error)

	// CreatePlaylist creates an empty playlist for the current user and returns its ID.
	CreatePlaylist(ctx context.Context, name string) (string, error)

	// AddTracksToPlaylist submits all URIs in a single batch request.
	// An empty URI list reports false without issuing a request.
	AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string) (bool, error)
}
