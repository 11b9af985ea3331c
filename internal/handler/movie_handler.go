package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/middleware"
)

// SearchMovies searches the TMDB catalog by term.
func (h *Handlers) SearchMovies(c fiber.Ctx) error {
	term := c.Query("query")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Informe um termo de busca."})
	}
	page := fiber.Query(c, "page", 1)

	result, err := h.catalog.SearchMovies(c.Context(), term, page)
	if err != nil {
		slog.Error("catalog search failed", "term", term, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Não foi possível carregar os filmes."})
	}

	return c.JSON(result)
}

// PopularMovies returns the catalog's popular listing for the home page.
func (h *Handlers) PopularMovies(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)

	result, err := h.catalog.PopularMovies(c.Context(), page)
	if err != nil {
		slog.Error("catalog popular failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Não foi possível carregar os filmes."})
	}

	return c.JSON(result)
}

// GetMovieDetail returns catalog details for one movie. When the session is
// authenticated the response also says whether the movie is already on the
// user's watchlist, so the detail page can swap its add button.
func (h *Handlers) GetMovieDetail(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "ID de filme inválido"})
	}

	detail, err := h.catalog.GetMovieDetail(c.Context(), id)
	if err != nil {
		slog.Error("catalog detail failed", "id", id, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "Não foi possível carregar os dados do filme."})
	}

	inWatchlist := false
	if sc := middleware.SessionContext(c); sc != nil && sc.IsLoggedIn() {
		inWatchlist, err = h.watchlistGateway(c).Contains(c.Context(), id)
		if err != nil {
			// The detail page still renders without the flag.
			slog.Error("watchlist membership check failed", "id", id, "error", err)
			inWatchlist = false
		}
	}

	return c.JSON(fiber.Map{
		"movie":       detail,
		"posterUrl":   h.catalog.ImageURL(detail.PosterPath, "w500"),
		"backdropUrl": h.catalog.ImageURL(detail.BackdropPath, "w780"),
		"inWatchlist": inWatchlist,
	})
}
