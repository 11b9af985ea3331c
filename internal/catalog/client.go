package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
)

// Client is the TMDB catalog API client. The catalog is third-party and
// read-only: its records are displayed, never owned or mutated here.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	http         *http.Client
}

// NewClient creates a new TMDB catalog client.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		language:     cfg.Language,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// MovieSummary is a movie from TMDB search/popular results.
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
}

// MoviePage is a paginated TMDB result set.
type MoviePage struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the detailed movie info from TMDB.
type MovieDetail struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Genres           []Genre `json:"genres"`
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime"`
	Tagline          string  `json:"tagline"`
}

// SearchMovies searches the catalog by term. Adult titles are excluded.
func (c *Client) SearchMovies(ctx context.Context, term string, page int) (*MoviePage, error) {
	if page < 1 {
		page = 1
	}
	reqURL := fmt.Sprintf(
		"%s/search/movie?api_key=%s&language=%s&query=%s&page=%d&include_adult=false",
		c.baseURL, c.apiKey, c.language, url.QueryEscape(term), page,
	)

	slog.Debug("searching TMDB", "term", term, "page", page)
	resp, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result MoviePage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &result, nil
}

// PopularMovies fetches the popular movies listing.
func (c *Client) PopularMovies(ctx context.Context, page int) (*MoviePage, error) {
	if page < 1 {
		page = 1
	}
	reqURL := fmt.Sprintf(
		"%s/movie/popular?api_key=%s&language=%s&page=%d",
		c.baseURL, c.apiKey, c.language, page,
	)

	slog.Debug("fetching TMDB popular", "page", page)
	resp, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result MoviePage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode popular response: %w", err)
	}
	return &result, nil
}

// GetMovieDetail fetches detailed movie info from TMDB.
func (c *Client) GetMovieDetail(ctx context.Context, tmdbID int) (*MovieDetail, error) {
	reqURL := fmt.Sprintf(
		"%s/movie/%d?api_key=%s&language=%s",
		c.baseURL, tmdbID, c.apiKey, c.language,
	)

	slog.Debug("fetching TMDB movie detail", "tmdb_id", tmdbID)
	resp, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result MovieDetail
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode movie detail response: %w", err)
	}
	return &result, nil
}

// ImageURL composes a full image URL from a TMDB path fragment and a size
// token. Pure string composition, no network. An empty path yields an empty
// URL so callers can fall back to a placeholder.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

func (c *Client) doGet(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
