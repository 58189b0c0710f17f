package tasks

import "strings"

// GenreMatcher decides whether an artist's genre tags satisfy any of the
// user's requested genres.
//
// Matching is deliberately loose in one direction: a requested genre matches
// when it appears as a substring of a normalized artist tag, so "pop"
// accepts an artist tagged "dream pop" but "dream pop" does not accept an
// artist tagged only "pop".
type GenreMatcher struct {
	requested  []string
	normalized []string
}

// NewGenreMatcher builds a matcher for the requested genres. Blank entries
// are dropped.
func NewGenreMatcher(genres []string) *GenreMatcher {
	m := &GenreMatcher{}
	for _, genre := range genres {
		normalized := normalizeGenre(genre)
		if normalized == "" {
			continue
		}
		m.requested = append(m.requested, genre)
		m.normalized = append(m.normalized, normalized)
	}
	return m
}

// normalizeGenre lowercases a tag and strips hyphens and spaces so that
// "Dream-Pop", "dream pop", and "dreampop" compare equal.
func normalizeGenre(genre string) string {
	genre = strings.ToLower(genre)
	genre = strings.ReplaceAll(genre, "-", "")
	genre = strings.ReplaceAll(genre, " ", "")
	return genre
}

// Genres returns the requested genres as given, minus blank entries.
func (m *GenreMatcher) Genres() []string {
	return m.requested
}

// Empty reports whether the matcher has no usable genres.
func (m *GenreMatcher) Empty() bool {
	return len(m.normalized) == 0
}

// Matches reports whether any artist tag contains any requested genre.
func (m *GenreMatcher) Matches(artistGenres []string) bool {
	for _, tag := range artistGenres {
		normalizedTag := normalizeGenre(tag)
		for _, want := range m.normalized {
			if strings.Contains(normalizedTag, want) {
				return true
			}
		}
	}
	return false
}
