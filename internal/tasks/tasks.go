package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/services"
	"github.com/desertthunder/genmix/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// defaultTopArtistsLimit bounds the listening-profile fetch.
	defaultTopArtistsLimit = 20
	// defaultSearchLimit bounds each per-genre artist search.
	defaultSearchLimit = 10
	// defaultPlaylistSize bounds a personalized mix when no size is given.
	defaultPlaylistSize = 20
	// defaultMarket is used when the caller supplies no market code.
	defaultMarket = "US"

	// personalizedArtistCap limits how many tracks one artist may contribute
	// to a personalized mix.
	personalizedArtistCap = 2
	// fillArtistCap limits how many tracks one artist may contribute to a
	// duration-bounded fill.
	fillArtistCap = 3
)

// CurationParams configures a personalized mix built from the user's top artists.
type CurationParams struct {
	Name            string   // Playlist name
	Genres          []string // Requested genres, at least one
	Size            int      // Maximum number of tracks, defaults to defaultPlaylistSize
	Market          string   // Market code for track availability
	TopArtistsLimit int      // Top artists to consider, defaults to defaultTopArtistsLimit
}

// DiscoveryParams configures a discovery mix built from genre search.
type DiscoveryParams struct {
	Name        string   // Playlist name
	Genres      []string // Genres to search, at least one
	SearchLimit int      // Artists per genre search, defaults to defaultSearchLimit
	Market      string   // Market code for track availability
}

// FillParams configures a duration-bounded mix built from genre search.
type FillParams struct {
	Name          string   // Playlist name
	Genres        []string // Genres to search, at least one
	TargetSeconds int      // Duration budget the mix fills toward
	Market        string   // Market code for track availability
	SearchLimit   int      // Artists per genre search, defaults to defaultSearchLimit
}

// CurationResult contains the outcome of a personalized or discovery run.
type CurationResult struct {
	PlaylistID   string             // Created playlist ID, empty when Created is false
	PlaylistName string             // Requested playlist name
	TrackURIs    []string           // URIs added to the playlist
	ArtistCount  int                // Matching artists considered
	Created      bool               // Whether a playlist was created
	Added        bool               // Whether any add batch was submitted
	Batches      []GenreBatchResult // Per-genre outcomes, discovery runs only
}

// GenreBatchResult records one genre's slice of a discovery run. A failed
// genre carries its error and contributes no tracks.
type GenreBatchResult struct {
	Genre     string
	TrackURIs []string
	Added     bool
	Err       error
}

// FillResult contains the outcome of a duration-bounded run.
type FillResult struct {
	PlaylistID      string
	PlaylistName    string
	TrackURIs       []string
	TotalDuration   int // Seconds of music selected
	TargetDuration  int // Seconds requested
	ArtistCount     int // Matching artists considered
	Created         bool
	Added           bool
	SkippedNoLength int // Tracks dropped because their duration could not be fetched
}

// Curator defines the playlist curation strategies.
type Curator interface {
	// CuratePersonalized builds a mix from the user's top artists filtered by
	// genre, taking tracks greedily in the catalog's ranking order.
	CuratePersonalized(ctx context.Context, progress chan<- ProgressUpdate, params CurationParams) (*CurationResult, error)

	// DiscoverNewArtists builds a mix by searching each genre for artists and
	// taking one track per artist. Genres fail independently.
	DiscoverNewArtists(ctx context.Context, progress chan<- ProgressUpdate, params DiscoveryParams) (*CurationResult, error)

	// FillToDuration builds a mix from genre search results that fills a
	// duration budget, shuffling candidates for variety.
	FillToDuration(ctx context.Context, progress chan<- ProgressUpdate, params FillParams) (*FillResult, error)
}

// CurationEngine implements [Curator] against a [services.Catalog].
//
// The optional rate limiter paces catalog calls; the optional random source
// makes duration-bounded selection reproducible in tests.
type CurationEngine struct {
	catalog services.Catalog
	limiter *rate.Limiter
	rng     *rand.Rand
}

var _ Curator = (*CurationEngine)(nil)

// NewCurationEngine creates an engine over the given catalog. Pass a nil
// limiter to disable pacing and a nil random source to seed from the clock.
func NewCurationEngine(catalog services.Catalog, limiter *rate.Limiter, rng *rand.Rand) *CurationEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CurationEngine{
		catalog: catalog,
		limiter: limiter,
		rng:     rng,
	}
}

// wait blocks until the limiter grants a slot for the next catalog call.
func (e *CurationEngine) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CurationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// CuratePersonalized builds a playlist from the user's top artists.
//
// Artists that do not match the requested genres are dropped. If no top
// artist matches, no playlist is created and no further catalog calls are
// made. Otherwise the playlist is created and tracks are taken greedily in
// the catalog's ranking order, at most personalizedArtistCap per artist,
// until the size bound is reached or the matching artists are exhausted. A
// playlist that ends up with zero tracks is still created.
func (e *CurationEngine) CuratePersonalized(ctx context.Context, progress chan<- ProgressUpdate, params CurationParams) (*CurationResult, error) {
	matcher := NewGenreMatcher(params.Genres)
	if matcher.Empty() {
		return nil, fmt.Errorf("%w: at least one genre is required", shared.ErrInvalidInput)
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	limit := params.TopArtistsLimit
	if limit <= 0 {
		limit = defaultTopArtistsLimit
	}
	size := params.Size
	if size <= 0 {
		size = defaultPlaylistSize
	}
	market := params.Market
	if market == "" {
		market = defaultMarket
	}

	result := &CurationResult{PlaylistName: params.Name}

	e.sendProgress(progress, fetchTopArtistsUpdate(limit))
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	artists, err := e.catalog.ListTopArtists(ctx, limit)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Artist, 0, len(artists))
	for _, artist := range artists {
		if matcher.Matches(artist.Genres) {
			matched = append(matched, artist)
		}
	}
	result.ArtistCount = len(matched)
	e.sendProgress(progress, filteredArtistsUpdate(len(matched), len(artists)))

	if len(matched) == 0 {
		return result, nil
	}

	e.sendProgress(progress, createPlaylistUpdate(params.Name))
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	playlistID, err := e.catalog.CreatePlaylist(ctx, params.Name)
	if err != nil {
		return result, err
	}
	result.PlaylistID = playlistID
	result.Created = true

	perArtist := make(map[string]int)
	uris := make([]string, 0, size)
	for i, artist := range matched {
		if len(uris) >= size {
			break
		}

		e.sendProgress(progress, gatherTracksUpdate(i+1, len(matched), artist.Name))
		if err := e.wait(ctx); err != nil {
			return result, err
		}
		tracks, err := e.catalog.ListTopTracks(ctx, artist.ID, market)
		if err != nil {
			// No data from this artist; move on to the next one.
			continue
		}

		for _, track := range tracks {
			if len(uris) >= size {
				break
			}
			if perArtist[artist.ID] >= personalizedArtistCap {
				break
			}
			uris = append(uris, track.URI)
			perArtist[artist.ID]++
		}
	}
	result.TrackURIs = uris

	e.sendProgress(progress, publishTracksUpdate(len(uris)))
	if len(uris) > 0 {
		if err := e.wait(ctx); err != nil {
			return result, err
		}
	}
	added, err := e.catalog.AddTracksToPlaylist(ctx, playlistID, uris)
	if err != nil {
		return result, err
	}
	result.Added = added
	return result, nil
}

// DiscoverNewArtists builds a playlist of unfamiliar artists by searching
// each requested genre.
//
// Each genre contributes at most one track per artist, the artist's
// top-ranked track. An artist already used by an earlier genre is skipped,
// as is an artist whose top tracks cannot be fetched. Tracks are added in
// one batch per genre, and a search or publish failure discards that
// genre's batch without affecting the others.
func (e *CurationEngine) DiscoverNewArtists(ctx context.Context, progress chan<- ProgressUpdate, params DiscoveryParams) (*CurationResult, error) {
	matcher := NewGenreMatcher(params.Genres)
	if matcher.Empty() {
		return nil, fmt.Errorf("%w: at least one genre is required", shared.ErrInvalidInput)
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	searchLimit := params.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	market := params.Market
	if market == "" {
		market = defaultMarket
	}
	genres := matcher.Genres()

	result := &CurationResult{PlaylistName: params.Name}

	e.sendProgress(progress, createPlaylistUpdate(params.Name))
	if err := e.wait(ctx); err != nil {
		return nil, err
	}
	playlistID, err := e.catalog.CreatePlaylist(ctx, params.Name)
	if err != nil {
		return nil, err
	}
	result.PlaylistID = playlistID
	result.Created = true

	seenArtists := make(map[string]bool)
	for i, genre := range genres {
		e.sendProgress(progress, searchGenreUpdate(i+1, len(genres), genre))
		batch := e.discoverGenre(ctx, progress, playlistID, genre, searchLimit, market, seenArtists)
		result.Batches = append(result.Batches, batch)
		if batch.Added {
			result.Added = true
			result.TrackURIs = append(result.TrackURIs, batch.TrackURIs...)
			result.ArtistCount += len(batch.TrackURIs)
		}
	}
	return result, nil
}

// discoverGenre gathers and publishes one genre's batch. A search or publish
// failure aborts the batch and nothing partial is added; an artist whose top
// tracks cannot be fetched is skipped and the rest of the batch proceeds.
func (e *CurationEngine) discoverGenre(ctx context.Context, progress chan<- ProgressUpdate, playlistID, genre string, searchLimit int, market string, seenArtists map[string]bool) GenreBatchResult {
	batch := GenreBatchResult{Genre: genre}

	if err := e.wait(ctx); err != nil {
		batch.Err = err
		return batch
	}
	artists, err := e.catalog.SearchArtistsByGenre(ctx, genre, searchLimit)
	if err != nil {
		batch.Err = err
		return batch
	}

	uris := make([]string, 0, len(artists))
	for _, artist := range artists {
		if seenArtists[artist.ID] {
			continue
		}

		if err := e.wait(ctx); err != nil {
			batch.Err = err
			return batch
		}
		tracks, err := e.catalog.ListTopTracks(ctx, artist.ID, market)
		if err != nil {
			// No data from this artist; move on to the next one.
			continue
		}
		seenArtists[artist.ID] = true
		if len(tracks) == 0 {
			continue
		}
		uris = append(uris, tracks[0].URI)
	}

	e.sendProgress(progress, publishTracksUpdate(len(uris)))
	if len(uris) > 0 {
		if err := e.wait(ctx); err != nil {
			batch.Err = err
			return batch
		}
	}
	added, err := e.catalog.AddTracksToPlaylist(ctx, playlistID, uris)
	if err != nil {
		batch.Err = err
		return batch
	}
	batch.TrackURIs = uris
	batch.Added = added
	return batch
}

// FillToDuration builds a playlist of tracks found by genre search that
// fills a duration budget.
//
// Each genre's search results contribute their top tracks to a shared
// candidate pool, which is shuffled and selected from until the budget is
// met: a capped artist's track is skipped, a track whose duration cannot be
// determined is skipped, and selection stops once the running total reaches
// the target, so the final total overshoots by at most one track.
func (e *CurationEngine) FillToDuration(ctx context.Context, progress chan<- ProgressUpdate, params FillParams) (*FillResult, error) {
	matcher := NewGenreMatcher(params.Genres)
	if matcher.Empty() {
		return nil, fmt.Errorf("%w: at least one genre is required", shared.ErrInvalidInput)
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	if params.TargetSeconds <= 0 {
		return nil, fmt.Errorf("%w: target duration must be positive", shared.ErrInvalidInput)
	}

	searchLimit := params.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	market := params.Market
	if market == "" {
		market = defaultMarket
	}
	genres := matcher.Genres()

	result := &FillResult{
		PlaylistName:   params.Name,
		TargetDuration: params.TargetSeconds,
	}

	candidates := make([]models.Artist, 0, len(genres)*searchLimit)
	seenArtists := make(map[string]bool)
	for i, genre := range genres {
		e.sendProgress(progress, searchGenreUpdate(i+1, len(genres), genre))
		if err := e.wait(ctx); err != nil {
			return nil, err
		}
		artists, err := e.catalog.SearchArtistsByGenre(ctx, genre, searchLimit)
		if err != nil {
			// No data from this genre; move on to the next one.
			continue
		}
		for _, artist := range artists {
			if seenArtists[artist.ID] {
				continue
			}
			seenArtists[artist.ID] = true
			candidates = append(candidates, artist)
		}
	}
	result.ArtistCount = len(candidates)

	if len(candidates) == 0 {
		return result, nil
	}

	pool := make([]models.Track, 0, len(candidates)*10)
	for i, artist := range candidates {
		e.sendProgress(progress, gatherTracksUpdate(i+1, len(candidates), artist.Name))
		if err := e.wait(ctx); err != nil {
			return result, err
		}
		tracks, err := e.catalog.ListTopTracks(ctx, artist.ID, market)
		if err != nil {
			// No data from this artist; move on to the next one.
			continue
		}
		for _, track := range tracks {
			if track.ArtistID == "" {
				track.ArtistID = artist.ID
			}
			pool = append(pool, track)
		}
	}

	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	e.sendProgress(progress, createPlaylistUpdate(params.Name))
	if err := e.wait(ctx); err != nil {
		return result, err
	}
	playlistID, err := e.catalog.CreatePlaylist(ctx, params.Name)
	if err != nil {
		return result, err
	}
	result.PlaylistID = playlistID
	result.Created = true

	perArtist := make(map[string]int)
	uris := make([]string, 0, len(pool))
	total := 0
	for i, track := range pool {
		if total >= params.TargetSeconds {
			break
		}
		if perArtist[track.ArtistID] >= fillArtistCap {
			continue
		}

		seconds := track.DurationSeconds
		if seconds <= 0 {
			e.sendProgress(progress, fetchDurationUpdate(i+1, len(pool), track.Name))
			if err := e.wait(ctx); err != nil {
				return result, err
			}
			seconds, err = e.catalog.TrackDuration(ctx, track.TrackID())
			if err != nil {
				result.SkippedNoLength++
				continue
			}
		}

		uris = append(uris, track.URI)
		perArtist[track.ArtistID]++
		total += seconds
	}
	result.TrackURIs = uris
	result.TotalDuration = total

	e.sendProgress(progress, publishTracksUpdate(len(uris)))
	if len(uris) > 0 {
		if err := e.wait(ctx); err != nil {
			return result, err
		}
	}
	added, err := e.catalog.AddTracksToPlaylist(ctx, playlistID, uris)
	if err != nil {
		return result, err
	}
	result.Added = added
	return result, nil
}
