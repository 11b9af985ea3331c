package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/middleware"
	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

// Register creates a new account. The confirm-password and terms checks are
// the form's job; only the fields the backend expects reach this point.
func (h *Handlers) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "corpo da requisição inválido"})
	}

	if err := req.Validate(); err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	if err := h.authGateway(c).Register(c.Context(), req); err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Conta criada com sucesso!",
	})
}

// Login authenticates against the backend and moves the session context to
// Authenticated on success.
func (h *Handlers) Login(c fiber.Ctx) error {
	var creds models.Credentials
	if err := c.Bind().JSON(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "corpo da requisição inválido"})
	}

	if err := creds.Validate(); err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	user, err := h.authGateway(c).Login(c.Context(), creds)
	if err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	if sc := middleware.SessionContext(c); sc != nil {
		sc.Login(user)
	}

	return c.JSON(fiber.Map{"user": user})
}

// Logout clears the session regardless of prior state.
func (h *Handlers) Logout(c fiber.Ctx) error {
	if sc := middleware.SessionContext(c); sc != nil {
		if err := sc.Logout(c.Context()); err != nil {
			slog.Error("logout failed to clear store", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgUnexpected})
		}
	}
	h.registry.Drop(middleware.SID(c))
	return c.JSON(fiber.Map{"message": "Logout realizado com sucesso."})
}

// Me returns the authenticated user.
func (h *Handlers) Me(c fiber.Ctx) error {
	sc := middleware.SessionContext(c)
	return c.JSON(fiber.Map{"user": sc.CurrentUser()})
}

// UpdateProfile replaces the profile fields and the session's user record.
func (h *Handlers) UpdateProfile(c fiber.Ctx) error {
	var patch models.ProfileUpdate
	if err := c.Bind().JSON(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "corpo da requisição inválido"})
	}

	if err := patch.Validate(); err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	user, err := h.authGateway(c).UpdateProfile(c.Context(), patch)
	if err != nil {
		return h.respondGatewayError(c, err, msgInvalidLogin)
	}

	sc := middleware.SessionContext(c)
	if err := sc.UpdateUserData(c.Context(), user); err != nil {
		slog.Error("failed to persist updated user", "error", err)
	}

	return c.JSON(fiber.Map{
		"message": "Perfil atualizado com sucesso!",
		"user":    user,
	})
}

// ChangePassword swaps the password. A 401 from the backend means the
// current password was wrong, not that the session died.
func (h *Handlers) ChangePassword(c fiber.Ctx) error {
	var change models.PasswordChange
	if err := c.Bind().JSON(&change); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "corpo da requisição inválido"})
	}

	if err := change.Validate(); err != nil {
		return h.respondGatewayError(c, err, msgWrongPassword)
	}

	if err := h.authGateway(c).ChangePassword(c.Context(), change); err != nil {
		return h.respondGatewayError(c, err, msgWrongPassword)
	}

	return c.JSON(fiber.Map{"message": "Senha atualizada com sucesso!"})
}

type deleteAccountBody struct {
	Password string `json:"password"`
	Confirm  bool   `json:"confirm"`
}

// DeleteAccount destroys the account. Irreversible, so the request must
// carry an explicit confirm flag on top of the password.
func (h *Handlers) DeleteAccount(c fiber.Ctx) error {
	var body deleteAccountBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "corpo da requisição inválido"})
	}

	if !body.Confirm {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Confirmação é obrigatória para excluir a conta.",
		})
	}
	if body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ValidationResponse{Errors: models.ValidationErrors{
			"password": "Senha é obrigatória para confirmar a exclusão da conta",
		}})
	}

	if err := h.authGateway(c).DeleteAccount(c.Context(), body.Password); err != nil {
		return h.respondGatewayError(c, err, "Senha incorreta.")
	}

	// The gateway already cleared the store; this settles the in-memory state.
	if sc := middleware.SessionContext(c); sc != nil {
		_ = sc.Logout(c.Context())
	}
	h.registry.Drop(middleware.SID(c))

	return c.JSON(fiber.Map{"message": "Conta excluída com sucesso."})
}
