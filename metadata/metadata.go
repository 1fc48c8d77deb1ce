// Package metadata maps song identifiers to human-facing track
// information and supports simple catalog search.
package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/euterpe-ml/euterpe/core"
)

// Track is the catalog entry for a single song.
type Track struct {
	ID      core.SongID `json:"id"`
	Title   string      `json:"title"`
	Artists []string    `json:"artists,omitempty"`
	Genres  []string    `json:"genres,omitempty"`
	Album   string      `json:"album,omitempty"`
}

// Resolver resolves song identifiers to tracks.
type Resolver interface {
	// Track returns the catalog entry for id. Unknown ids yield a
	// placeholder track whose title is the id rendered as text, so
	// ranked results stay presentable even with a stale catalog.
	Track(id core.SongID) Track
}

// Compile time check to ensure Store satisfies the Resolver interface.
var _ Resolver = (*Store)(nil)

// Store is an immutable in-memory track catalog.
type Store struct {
	tracks map[core.SongID]Track
}

// NewStore builds a catalog from track records. Later records win on
// duplicate ids.
func NewStore(tracks []Track) *Store {
	m := make(map[core.SongID]Track, len(tracks))
	for _, t := range tracks {
		m[t.ID] = t
	}
	return &Store{tracks: m}
}

// Len returns the number of cataloged tracks.
func (s *Store) Len() int { return len(s.tracks) }

// Track returns the catalog entry for id, or a placeholder when the
// id is not cataloged.
func (s *Store) Track(id core.SongID) Track {
	if t, ok := s.tracks[id]; ok {
		return t
	}
	return Track{ID: id, Title: fmt.Sprintf("%d", id)}
}

// Search returns up to limit tracks whose title or artist contains the
// query, case-insensitively. Results are ordered by id so repeated
// searches are stable. An empty query matches nothing.
func (s *Store) Search(query string, limit int) []Track {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var hits []Track
	for _, t := range s.tracks {
		if matches(t, query) {
			hits = append(hits, t)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func matches(t Track, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	for _, a := range t.Artists {
		if strings.Contains(strings.ToLower(a), query) {
			return true
		}
	}
	return false
}
