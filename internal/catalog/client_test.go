package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
)

func newTestClient(t *testing.T, backend http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	return NewClient(config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Language:     "pt-BR",
	})
}

func TestSearchMoviesShouldSendTermPageAndLanguage(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(MoviePage{
			Page:         2,
			Results:      []MovieSummary{{ID: 603, Title: "Matrix"}},
			TotalPages:   5,
			TotalResults: 100,
		})
	})

	client := newTestClient(t, backend)

	page, err := client.SearchMovies(context.Background(), "o poderoso chefão", 2)
	require.NoError(t, err)
	assert.Equal(t, "/search/movie", gotPath)
	assert.Equal(t, []string{"o poderoso chefão"}, gotQuery["query"])
	assert.Equal(t, []string{"pt-BR"}, gotQuery["language"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"false"}, gotQuery["include_adult"])
	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])

	assert.Equal(t, 100, page.TotalResults)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Matrix", page.Results[0].Title)
}

func TestPopularMoviesShouldDefaultToPageOne(t *testing.T) {
	var gotQuery map[string][]string
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(MoviePage{Page: 1})
	})

	client := newTestClient(t, backend)

	_, err := client.PopularMovies(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, gotQuery["page"])
}

func TestGetMovieDetailShouldDecodeGenresAndRuntime(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		json.NewEncoder(w).Encode(MovieDetail{
			ID:      603,
			Title:   "Matrix",
			Runtime: 136,
			Genres:  []Genre{{ID: 28, Name: "Ação"}},
		})
	})

	client := newTestClient(t, backend)

	detail, err := client.GetMovieDetail(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, 136, detail.Runtime)
	require.Len(t, detail.Genres, 1)
	assert.Equal(t, "Ação", detail.Genres[0].Name)
}

func TestCatalogErrorStatusShouldFail(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"not found"}`))
	})

	client := newTestClient(t, backend)

	_, err := client.GetMovieDetail(context.Background(), 999999)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestImageURLShouldComposeFromPathAndSize(t *testing.T) {
	client := NewClient(config.TMDBConfig{ImageBaseURL: "https://image.tmdb.org/t/p"})

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.ImageURL("/abc.jpg", "w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/abc.jpg", client.ImageURL("/abc.jpg", "w780"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.ImageURL("/abc.jpg", ""), "size defaults to w500")
	assert.Empty(t, client.ImageURL("", "w500"), "missing poster path yields no URL")
}
