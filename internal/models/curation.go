package models

import (
	"fmt"
	"strings"
	"time"
)

// Artist represents a catalog artist with its genre tags.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}

// Track represents a catalog track candidate for curation.
//
// DurationSeconds is zero until a duration-bounded selection fetches it lazily.
type Track struct {
	URI             string
	ArtistID        string
	Name            string
	DurationSeconds int
}

// TrackID extracts the bare track ID from a "spotify:track:{id}" URI.
func (t Track) TrackID() string {
	parts := strings.Split(t.URI, ":")
	return parts[len(parts)-1]
}

// Playlist represents basic playlist metadata returned by the catalog.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// CurationRun is a persisted record of a completed curation run.
type CurationRun struct {
	id              string
	sequence        int
	playlistID      string
	name            string
	genres          []string
	mode            string
	trackCount      int
	durationSeconds int
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewCurationRun creates a CurationRun for the given playlist and selection totals.
func NewCurationRun(sequence int, playlistID, name string, genres []string, mode string, trackCount, durationSeconds int) *CurationRun {
	now := time.Now()
	return &CurationRun{
		sequence:        sequence,
		playlistID:      playlistID,
		name:            name,
		genres:          genres,
		mode:            mode,
		trackCount:      trackCount,
		durationSeconds: durationSeconds,
		createdAt:       now,
		updatedAt:       now,
	}
}

func (r *CurationRun) ID() string            { return r.id }
func (r *CurationRun) Sequence() int         { return r.sequence }
func (r *CurationRun) PlaylistID() string    { return r.playlistID }
func (r *CurationRun) Name() string          { return r.name }
func (r *CurationRun) Genres() []string      { return r.genres }
func (r *CurationRun) Mode() string          { return r.mode }
func (r *CurationRun) TrackCount() int       { return r.trackCount }
func (r *CurationRun) DurationSeconds() int  { return r.durationSeconds }
func (r *CurationRun) CreatedAt() time.Time  { return r.createdAt }
func (r *CurationRun) UpdatedAt() time.Time  { return r.updatedAt }
func (r *CurationRun) DeletedAt() *time.Time { return r.deletedAt }

func (r *CurationRun) SetID(id string)             { r.id = id }
func (r *CurationRun) SetCreatedAt(t time.Time)    { r.createdAt = t }
func (r *CurationRun) SetUpdatedAt(t time.Time)    { r.updatedAt = t }
func (r *CurationRun) SetDeletedAt(t *time.Time)   { r.deletedAt = t }
func (r *CurationRun) SetTrackCount(n int)         { r.trackCount = n }
func (r *CurationRun) SetDurationSeconds(secs int) { r.durationSeconds = secs }

// GenresCSV returns the genre list in the comma-joined form stored in the database.
func (r *CurationRun) GenresCSV() string {
	return strings.Join(r.genres, ",")
}

// Validate checks that the run references a playlist and at least one genre.
func (r *CurationRun) Validate() error {
	if r.playlistID == "" {
		return fmt.Errorf("curation run requires a playlist id")
	}
	if r.name == "" {
		return fmt.Errorf("curation run requires a playlist name")
	}
	if len(r.genres) == 0 {
		return fmt.Errorf("curation run requires at least one genre")
	}
	if r.mode == "" {
		return fmt.Errorf("curation run requires a curation mode")
	}
	if r.trackCount < 0 {
		return fmt.Errorf("track count cannot be negative")
	}
	return nil
}

// GenresFromCSV splits a stored comma-joined genre list.
func GenresFromCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}
