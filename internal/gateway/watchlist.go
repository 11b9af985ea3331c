package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
)

// WatchlistGateway issues watchlist requests to the TrackFilmes API. Every
// operation requires an authenticated session; the bearer token is attached
// by the transport. A 401 surfaces as ErrUnauthenticated and is the caller's
// to react to.
type WatchlistGateway struct {
	baseURL string
	authed  *http.Client
}

// NewWatchlistGateway creates a gateway bound to one browser session.
func NewWatchlistGateway(baseURL string, base *http.Client, sess *session.Handle) *WatchlistGateway {
	return &WatchlistGateway{
		baseURL: baseURL,
		authed:  newAuthedClient(base, sess),
	}
}

type listResponse struct {
	// Pointer so a response without the field fails fast instead of
	// defaulting to an empty list.
	Watchlist *[]models.WatchlistEntry `json:"watchlist"`
}

type entryResponse struct {
	Message string                 `json:"message"`
	Item    *models.WatchlistEntry `json:"item"`
}

// List fetches the complete current watchlist. No pagination or delta sync:
// every call returns the full set.
func (g *WatchlistGateway) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	resp, err := doJSON(ctx, g.authed, http.MethodGet, g.baseURL+"/watchlist", nil)
	if err != nil {
		slog.Error("watchlist fetch failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("watchlist fetch rejected", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Watchlist == nil {
		return nil, fmt.Errorf("%w: response missing watchlist field", ErrMalformedResponse)
	}
	return *payload.Watchlist, nil
}

// Add creates an entry for the given TMDB movie id. The entry itself is
// created server-side; the returned item may be nil when the server answers
// with a bare acknowledgement.
func (g *WatchlistGateway) Add(ctx context.Context, movieID int) (*models.WatchlistEntry, error) {
	resp, err := doJSON(ctx, g.authed, http.MethodPost, fmt.Sprintf("%s/watchlist/%d", g.baseURL, movieID), nil)
	if err != nil {
		slog.Error("watchlist add failed", "movie_id", movieID, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("watchlist add rejected", "movie_id", movieID, "status", resp.StatusCode, "error", err)
		return nil, err
	}

	var payload entryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.Item, nil
}

// Remove deletes the entry keyed by the TMDB movie id.
func (g *WatchlistGateway) Remove(ctx context.Context, movieID int) error {
	resp, err := doJSON(ctx, g.authed, http.MethodDelete, fmt.Sprintf("%s/watchlist/%d", g.baseURL, movieID), nil)
	if err != nil {
		slog.Error("watchlist remove failed", "movie_id", movieID, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("watchlist remove rejected", "movie_id", movieID, "status", resp.StatusCode, "error", err)
		return err
	}
	return nil
}

// SetWatched marks the entry watched or unwatched. The server's updated
// entry is returned when the response carries one, so callers can prefer the
// authoritative watchedAt over their own clock.
func (g *WatchlistGateway) SetWatched(ctx context.Context, movieID int, watched bool) (*models.WatchlistEntry, error) {
	url := fmt.Sprintf("%s/watchlist/%d/watched", g.baseURL, movieID)
	resp, err := doJSON(ctx, g.authed, http.MethodPatch, url, models.WatchedRequest{Watched: watched})
	if err != nil {
		slog.Error("watchlist toggle failed", "movie_id", movieID, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("watchlist toggle rejected", "movie_id", movieID, "status", resp.StatusCode, "error", err)
		return nil, err
	}

	var payload entryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.Item, nil
}

// Contains reports whether the given movie is on the watchlist. Backed by a
// full List fetch; the API has no membership endpoint.
func (g *WatchlistGateway) Contains(ctx context.Context, movieID int) (bool, error) {
	entries, err := g.List(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.TMDBMovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}
