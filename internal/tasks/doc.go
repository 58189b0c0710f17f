// Package tasks implements the playlist curation engine.
//
// The core abstraction is [Curator], which builds playlists from the user's
// listening profile under genre constraints. Three strategies are provided:
// a personalized mix from the user's top artists, a discovery mix from
// genre search, and a duration-bounded fill. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks
