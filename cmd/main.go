package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/miyashiroo/trackfilmes-frontend/internal/catalog"
	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
	"github.com/miyashiroo/trackfilmes-frontend/internal/database"
	"github.com/miyashiroo/trackfilmes-frontend/internal/gateway"
	"github.com/miyashiroo/trackfilmes-frontend/internal/handler"
	"github.com/miyashiroo/trackfilmes-frontend/internal/middleware"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
	"github.com/miyashiroo/trackfilmes-frontend/internal/watchlist"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Redis backs the session store (the browser-local-storage equivalent)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	store := session.NewRedisStore(rdb, cfg.Session.TTL)
	catalogClient := catalog.NewClient(cfg.TMDB)
	registry := watchlist.NewRegistry(cfg.Session.TTL)
	httpClient := gateway.NewHTTPClient(cfg.API.Timeout)
	h := handler.New(cfg, store, httpClient, catalogClient, registry)

	app := fiber.New(fiber.Config{
		AppName:      "trackfilmes-frontend",
		ServerHeader: "trackfilmes-frontend",
	})

	// Global middleware
	app.Use(fiberRecover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Session(store, cfg.Session))

	app.Get("/health", h.Health)

	api := app.Group("/api")

	// Public routes: register and login must stay unauthenticated
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)

	// Catalog browsing works logged out too
	movies := api.Group("/movies")
	movies.Get("/search", h.SearchMovies)
	movies.Get("/popular", h.PopularMovies)
	movies.Get("/:id", h.GetMovieDetail)

	// Protected routes
	guard := middleware.RequireAuth("/login")

	account := api.Group("/auth", guard)
	account.Get("/me", h.Me)
	account.Put("/profile", h.UpdateProfile)
	account.Put("/password", h.ChangePassword)
	account.Delete("/account", h.DeleteAccount)

	wl := api.Group("/watchlist", guard)
	wl.Get("/", h.GetWatchlist)
	wl.Post("/:movieId", h.AddToWatchlist)
	wl.Delete("/:movieId", h.RemoveFromWatchlist)
	wl.Patch("/:movieId/watched", h.ToggleWatched)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("trackfilmes-frontend starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down trackfilmes-frontend...")

	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("HTTP server stopped")

	if err := rdb.Close(); err != nil {
		slog.Error("error closing Redis connection", "error", err)
	} else {
		slog.Info("Redis connection closed")
	}

	slog.Info("trackfilmes-frontend shutdown complete")
}
