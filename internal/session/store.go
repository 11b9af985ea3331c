package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

// Store persists the (token, user) pair for each browser session as two
// independent keyed entries. Read treats an absent or unparsable entry as
// "not logged in", never as an error; errors are reserved for backend
// failures. There is no expiry tracking beyond the storage TTL: a token is
// considered valid until the server rejects it.
type Store interface {
	// Save writes both entries. The pair is atomic from the caller's
	// perspective.
	Save(ctx context.Context, sid, token string, user *models.UserRecord) error
	// SaveUser overwrites only the user entry, leaving the token untouched.
	SaveUser(ctx context.Context, sid string, user *models.UserRecord) error
	// Read returns the stored session, or an empty one when either entry is
	// absent or the user payload fails to parse.
	Read(ctx context.Context, sid string) (models.Session, error)
	// Clear removes both entries.
	Clear(ctx context.Context, sid string) error
}

func tokenKey(sid string) string { return "session:" + sid + ":token" }
func userKey(sid string) string  { return "session:" + sid + ":user" }

// RedisStore keeps sessions in Redis, the server-side stand-in for the
// browser's local storage.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. Entries expire after
// ttl of inactivity; every Save resets the clock.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sid, token string, user *models.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(sid), token, s.ttl)
		pipe.Set(ctx, userKey(sid), data, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveUser(ctx context.Context, sid string, user *models.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := s.client.Set(ctx, userKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, sid string) (models.Session, error) {
	vals, err := s.client.MGet(ctx, tokenKey(sid), userKey(sid)).Result()
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	token, okToken := vals[0].(string)
	rawUser, okUser := vals[1].(string)
	if !okToken || !okUser || token == "" {
		return models.Session{}, nil
	}

	var user models.UserRecord
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		// A corrupt user payload means the session is unusable; treat it as
		// absent rather than failing the request.
		slog.Warn("discarding unparsable session user payload", "sid", sid, "error", err)
		return models.Session{}, nil
	}

	return models.Session{Token: token, User: &user}, nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, tokenKey(sid), userKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and single-process setups.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

type memoryEntry struct {
	token string
	user  []byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, sid, token string, user *models.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = &memoryEntry{token: token, user: data}
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, sid string, user *models.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sid]
	if !ok {
		entry = &memoryEntry{}
		s.sessions[sid] = entry
	}
	entry.user = data
	return nil
}

func (s *MemoryStore) Read(_ context.Context, sid string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[sid]
	if !ok || entry.token == "" || len(entry.user) == 0 {
		return models.Session{}, nil
	}

	var user models.UserRecord
	if err := json.Unmarshal(entry.user, &user); err != nil {
		slog.Warn("discarding unparsable session user payload", "sid", sid, "error", err)
		return models.Session{}, nil
	}

	return models.Session{Token: entry.token, User: &user}, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

// Len reports how many sessions are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
