package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

// State is the session context's lifecycle state.
type State int

const (
	// StateLoading holds only during the initial store read. No transition
	// leads back here.
	StateLoading State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Context is the reactive session state consulted by guards and handlers.
// It is an explicit per-session object carried through the request, not a
// package-level mutable. State machine: Loading -> {Authenticated, Anonymous};
// Login moves any state to Authenticated, Logout to Anonymous, UpdateUserData
// keeps Authenticated with the user replaced.
type Context struct {
	mu    sync.RWMutex
	state State
	user  *models.UserRecord
	sess  *Handle
}

// NewContext creates an unresolved context. Callers must Resolve it before
// consulting IsLoggedIn; the guard renders a placeholder until then.
func NewContext(sess *Handle) *Context {
	return &Context{state: StateLoading, sess: sess}
}

// Resolve performs the initial store read. It is a no-op once the context
// has left StateLoading.
func (c *Context) Resolve(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return
	}

	stored, err := c.sess.Read(ctx)
	if err != nil {
		slog.Error("failed to read session store", "sid", c.sess.SID(), "error", err)
		c.state = StateAnonymous
		return
	}

	if stored.LoggedIn() {
		c.state = StateAuthenticated
		c.user = stored.User
	} else {
		c.state = StateAnonymous
	}
}

// Login records a successful authentication. The auth gateway has already
// written the store by the time this runs.
func (c *Context) Login(user *models.UserRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateAuthenticated
	c.user = user
}

// Logout clears the store and moves the context to Anonymous regardless of
// prior state.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.sess.Clear(ctx)
	c.state = StateAnonymous
	c.user = nil
	return err
}

// UpdateUserData replaces the current user wholesale and persists it. The
// session stays Authenticated.
func (c *Context) UpdateUserData(ctx context.Context, user *models.UserRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sess.SaveUser(ctx, user); err != nil {
		return err
	}
	c.user = user
	return nil
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Loading reports whether the initial read is still pending.
func (c *Context) Loading() bool {
	return c.State() == StateLoading
}

// IsLoggedIn reports whether the session is authenticated.
func (c *Context) IsLoggedIn() bool {
	return c.State() == StateAuthenticated
}

// CurrentUser returns the authenticated user, or nil.
func (c *Context) CurrentUser() *models.UserRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Session returns the handle this context is bound to.
func (c *Context) Session() *Handle {
	return c.sess
}
