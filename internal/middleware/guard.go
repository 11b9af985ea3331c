package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
)

// RequireAuth gates protected views on the session context. While the
// context is still loading it answers with a placeholder and makes no
// redirect decision, so an unfinished initial read cannot flash-redirect a
// logged-in user to the login page. Once resolved, anonymous navigation is
// redirected to loginPath with the attempted target discarded.
func RequireAuth(loginPath string) fiber.Handler {
	return func(c fiber.Ctx) error {
		sc := SessionContext(c)
		if sc == nil {
			return c.Redirect().To(loginPath)
		}

		switch sc.State() {
		case session.StateLoading:
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status": "loading",
			})
		case session.StateAnonymous:
			return c.Redirect().To(loginPath)
		}
		return c.Next()
	}
}
