package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/catalog"
	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
	"github.com/miyashiroo/trackfilmes-frontend/internal/gateway"
	"github.com/miyashiroo/trackfilmes-frontend/internal/middleware"
	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
	"github.com/miyashiroo/trackfilmes-frontend/internal/watchlist"
)

// User-visible messages. The UI renders them verbatim in inline banners.
const (
	msgInvalidLogin      = "Email ou senha incorretos."
	msgDuplicateEmail    = "Este email já está sendo usado por outra conta."
	msgWrongPassword     = "Senha atual incorreta."
	msgSessionExpired    = "Sessão expirada. Faça login novamente."
	msgServerUnreachable = "Não foi possível conectar ao servidor. Verifique sua conexão."
	msgUnexpectedReply   = "Resposta inesperada do servidor."
	msgUnexpected        = "Erro inesperado. Tente novamente."
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse carries field-level validation messages.
type ValidationResponse struct {
	Errors models.ValidationErrors `json:"errors"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	cfg      *config.Config
	store    session.Store
	httpc    *http.Client
	catalog  *catalog.Client
	registry *watchlist.Registry
}

// New creates a Handlers instance. httpc is the shared client for both
// gateways; per-request bearer wrapping happens inside the gateways.
func New(cfg *config.Config, store session.Store, httpc *http.Client, cat *catalog.Client, registry *watchlist.Registry) *Handlers {
	return &Handlers{
		cfg:      cfg,
		store:    store,
		httpc:    httpc,
		catalog:  cat,
		registry: registry,
	}
}

// Health returns service health status.
func (h *Handlers) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "trackfilmes-frontend",
	})
}

func (h *Handlers) handle(c fiber.Ctx) *session.Handle {
	return session.NewHandle(h.store, middleware.SID(c))
}

func (h *Handlers) authGateway(c fiber.Ctx) *gateway.AuthGateway {
	return gateway.NewAuthGateway(h.cfg.API.BaseURL, h.httpc, h.handle(c))
}

func (h *Handlers) watchlistGateway(c fiber.Ctx) *gateway.WatchlistGateway {
	return gateway.NewWatchlistGateway(h.cfg.API.BaseURL, h.httpc, h.handle(c))
}

func (h *Handlers) viewModel(c fiber.Ctx) *watchlist.ViewModel {
	gw := h.watchlistGateway(c)
	return h.registry.Get(middleware.SID(c), func() *watchlist.ViewModel {
		return watchlist.NewViewModel(gw)
	})
}

// respondGatewayError maps the gateway error taxonomy to a status and a
// user-visible message. invalidCredMsg customizes the 401-as-wrong-password
// message per call site (login vs password change vs account deletion).
// An Unauthenticated error forces a session clear: a revoked token must not
// leave the browser apparently logged in.
func (h *Handlers) respondGatewayError(c fiber.Ctx, err error, invalidCredMsg string) error {
	var validation models.ValidationErrors
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(ValidationResponse{Errors: validation})
	}

	switch {
	case errors.Is(err, gateway.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: invalidCredMsg})
	case errors.Is(err, gateway.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: msgDuplicateEmail})
	case errors.Is(err, gateway.ErrUnauthenticated):
		if sc := middleware.SessionContext(c); sc != nil {
			if err := sc.Logout(c.Context()); err != nil {
				slog.Error("failed to clear rejected session", "error", err)
			}
		}
		h.registry.Drop(middleware.SID(c))
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: msgSessionExpired})
	case errors.Is(err, gateway.ErrNetworkUnreachable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgServerUnreachable})
	case errors.Is(err, gateway.ErrMalformedResponse):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgUnexpectedReply})
	}

	var server *gateway.ServerError
	if errors.As(err, &server) {
		msg := server.Message
		if msg == "" {
			msg = msgUnexpected
		}
		return c.Status(server.Status).JSON(ErrorResponse{Error: msg})
	}

	slog.Error("unmapped gateway error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgUnexpected})
}
