package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

func TestMemoryStoreSaveReadShouldRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.UserRecord{ID: 7, Name: "Maria", Email: "maria@example.com"}
	require.NoError(t, store.Save(ctx, "sid1", "tok-abc", user))

	sess, err := store.Read(ctx, "sid1")
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "tok-abc", sess.Token)
	assert.Equal(t, "Maria", sess.User.Name)
	assert.Equal(t, 7, sess.User.ID)
}

func TestMemoryStoreReadAbsentShouldReturnEmptySession(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Read(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.User)
}

func TestMemoryStoreReadCorruptUserShouldReturnEmptySession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid1", "tok", &models.UserRecord{ID: 1}))
	store.mu.Lock()
	store.sessions["sid1"].user = []byte("{not json")
	store.mu.Unlock()

	sess, err := store.Read(ctx, "sid1")
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn(), "corrupt user payload must read as absent, not as an error")
}

func TestMemoryStoreClearShouldRemoveBothEntries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid1", "tok", &models.UserRecord{ID: 1}))
	require.NoError(t, store.Clear(ctx, "sid1"))

	sess, err := store.Read(ctx, "sid1")
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreSaveUserShouldReplaceOnlyUser(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid1", "tok", &models.UserRecord{ID: 1, Name: "Old"}))
	require.NoError(t, store.SaveUser(ctx, "sid1", &models.UserRecord{ID: 1, Name: "New"}))

	sess, err := store.Read(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "New", sess.User.Name)
}

func TestHandleTokenShouldReturnStoredToken(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	h := NewHandle(store, "sid1")

	tok, err := h.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, h.Save(ctx, "tok-xyz", &models.UserRecord{ID: 2}))
	tok, err = h.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", tok)
}
