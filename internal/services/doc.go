// Package services implements the authenticated facade over the remote music catalog.
//
// The [Catalog] interface is the only surface the curation engine depends on;
// [SpotifyClient] is its production implementation against the Spotify Web API.
// Every method issues exactly one HTTP request and translates transport or
// schema problems into typed errors ([RequestError], [SchemaError]) so that no
// raw transport failure crosses a package boundary.
package services
