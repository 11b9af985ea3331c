package models

import "time"

// WatchlistEntry is one watchlist item. Identity is the external TMDB movie
// ID, not the server's own primary key: all lookups, removals and toggles key
// on TMDBMovieID. WatchedAt is non-nil iff Watched is true.
type WatchlistEntry struct {
	ID          int        `json:"id"`
	TMDBMovieID int        `json:"tmdbMovieId"`
	Title       string     `json:"title"`
	PosterPath  string     `json:"posterPath,omitempty"`
	AddedAt     time.Time  `json:"addedAt"`
	Watched     bool       `json:"watched"`
	WatchedAt   *time.Time `json:"watchedAt"`
}

// WatchedRequest is the body of the toggle-watched PATCH.
type WatchedRequest struct {
	Watched bool `json:"watched"`
}
