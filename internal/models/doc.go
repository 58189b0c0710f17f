// Package models defines domain entities and persistence interfaces for the genmix playlist curator.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing catalog data
//   - [Artist] : Artist identity plus its genre tags
//   - [Track] : Track URI with the artist it was fetched for
//   - [Playlist] : Basic playlist metadata returned by the catalog
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [CurationRun] : A completed curation run with its playlist, genres, and totals
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
