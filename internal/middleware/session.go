package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gofiber/fiber/v3"

	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
)

const (
	localsSessionCtx = "session_ctx"
	localsSessionSID = "session_sid"
)

// Session resolves the browser session on every request. It assigns a
// session id cookie on first contact, reads the store once, and leaves a
// resolved session.Context in the request locals for guards and handlers.
func Session(store session.Store, cfg config.SessionConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		sid := c.Cookies(cfg.CookieName)
		if sid == "" {
			sid = newSID()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HTTPOnly: true,
				Secure:   cfg.SecureCookie,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		sc := session.NewContext(session.NewHandle(store, sid))
		sc.Resolve(c.Context())

		c.Locals(localsSessionCtx, sc)
		c.Locals(localsSessionSID, sid)
		return c.Next()
	}
}

// SessionContext returns the request's session context, or nil when the
// Session middleware did not run.
func SessionContext(c fiber.Ctx) *session.Context {
	sc, _ := c.Locals(localsSessionCtx).(*session.Context)
	return sc
}

// SID returns the request's session id.
func SID(c fiber.Ctx) string {
	sid, _ := c.Locals(localsSessionSID).(string)
	return sid
}

func newSID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("session id entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
