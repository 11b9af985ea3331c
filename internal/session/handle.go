package session

import (
	"context"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

// Handle binds a Store to one browser session id. It is the only way
// gateways touch session state, and it doubles as the token source for the
// bearer transport.
type Handle struct {
	store Store
	sid   string
}

// NewHandle creates a handle for the given session id.
func NewHandle(store Store, sid string) *Handle {
	return &Handle{store: store, sid: sid}
}

// SID returns the session id this handle is bound to.
func (h *Handle) SID() string { return h.sid }

// Save writes the token and user pair.
func (h *Handle) Save(ctx context.Context, token string, user *models.UserRecord) error {
	return h.store.Save(ctx, h.sid, token, user)
}

// SaveUser overwrites the stored user record.
func (h *Handle) SaveUser(ctx context.Context, user *models.UserRecord) error {
	return h.store.SaveUser(ctx, h.sid, user)
}

// Read returns the stored session.
func (h *Handle) Read(ctx context.Context) (models.Session, error) {
	return h.store.Read(ctx, h.sid)
}

// Clear removes the stored session.
func (h *Handle) Clear(ctx context.Context) error {
	return h.store.Clear(ctx, h.sid)
}

// Token returns the stored bearer token, or "" when the session is anonymous.
func (h *Handle) Token(ctx context.Context) (string, error) {
	sess, err := h.store.Read(ctx, h.sid)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}
