package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/watchlist"
)

// GetWatchlist reloads the view-model from the server and returns the
// partition selected by the filter query parameter.
func (h *Handlers) GetWatchlist(c fiber.Ctx) error {
	vm := h.viewModel(c)
	if err := vm.Load(c.Context()); err != nil {
		return h.respondGatewayError(c, err, msgSessionExpired)
	}

	filter := watchlist.ParseFilter(c.Query("filter", "all"))
	return c.JSON(fiber.Map{
		"watchlist": vm.FilterBy(filter),
		"filter":    filter,
		"total":     len(vm.Entries()),
	})
}

// AddToWatchlist creates an entry for the given movie id. Add happens from
// the search and detail pages, outside a mounted watchlist view, so it goes
// straight through the gateway.
func (h *Handlers) AddToWatchlist(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "ID de filme inválido"})
	}

	item, err := h.watchlistGateway(c).Add(c.Context(), movieID)
	if err != nil {
		return h.respondGatewayError(c, err, msgSessionExpired)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Filme adicionado à watchlist.",
		"item":    item,
	})
}

// RemoveFromWatchlist deletes the entry and applies the optimistic filter to
// the in-memory list, no refetch.
func (h *Handlers) RemoveFromWatchlist(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "ID de filme inválido"})
	}

	vm := h.viewModel(c)
	if !vm.Loaded() {
		if err := vm.Load(c.Context()); err != nil {
			return h.respondGatewayError(c, err, msgSessionExpired)
		}
	}

	if err := vm.Remove(c.Context(), movieID); err != nil {
		if errors.Is(err, watchlist.ErrMutationInFlight) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Error: "Operação já em andamento para este filme.",
			})
		}
		return h.respondGatewayError(c, err, msgSessionExpired)
	}

	return c.JSON(fiber.Map{
		"message":   "Filme removido da watchlist.",
		"watchlist": vm.Entries(),
	})
}

// ToggleWatched inverts the entry's watched flag.
func (h *Handlers) ToggleWatched(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "ID de filme inválido"})
	}

	vm := h.viewModel(c)
	if !vm.Loaded() {
		if err := vm.Load(c.Context()); err != nil {
			return h.respondGatewayError(c, err, msgSessionExpired)
		}
	}

	item, err := vm.ToggleWatched(c.Context(), movieID)
	if err != nil {
		if errors.Is(err, watchlist.ErrMutationInFlight) {
			return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
				Error: "Operação já em andamento para este filme.",
			})
		}
		return h.respondGatewayError(c, err, msgSessionExpired)
	}

	return c.JSON(fiber.Map{"item": item})
}
