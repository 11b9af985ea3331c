package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyashiroo/trackfilmes-frontend/internal/catalog"
	"github.com/miyashiroo/trackfilmes-frontend/internal/config"
	"github.com/miyashiroo/trackfilmes-frontend/internal/gateway"
	"github.com/miyashiroo/trackfilmes-frontend/internal/middleware"
	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
	"github.com/miyashiroo/trackfilmes-frontend/internal/watchlist"
)

const testCookieName = "trackfilmes_session"

// newApp wires the full middleware and route chain against a fake backend,
// the same shape main assembles.
func newApp(t *testing.T, backendURL string) (*fiber.App, *session.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: backendURL + "/api", Timeout: 2 * time.Second},
		Session: config.SessionConfig{CookieName: testCookieName, TTL: time.Hour},
	}
	store := session.NewMemoryStore()
	h := New(cfg, store, gateway.NewHTTPClient(cfg.API.Timeout), catalog.NewClient(cfg.TMDB), watchlist.NewRegistry(time.Hour))

	app := fiber.New()
	app.Use(middleware.Session(store, cfg.Session))

	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)

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

	return app, store
}

func newBackendApp(t *testing.T, backend http.Handler) (*fiber.App, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return newApp(t, srv.URL)
}

func jsonRequest(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestLoginWrongPasswordShouldReturnInlineMessage(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	req := jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "senha-errada1!",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, msgInvalidLogin, body["error"])
	assert.Equal(t, 0, store.Len(), "failed login must leave no session behind")
}

func TestLoginValidationShouldFailBeforeAnyNetworkCall(t *testing.T) {
	app, _ := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("validation failures must not reach the backend")
	}))

	req := jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "senha123!",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Email inválido", errs["email"])
}

func TestLoginSuccessShouldAuthenticateFollowingRequests(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-xyz",
			"user":  models.UserRecord{ID: 7, Name: "Maria", Email: "maria@example.com"},
		})
	}))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "senha123!",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.Equal(t, 1, store.Len())

	// The session survives into a guarded route on the next request
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, cookie))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "maria@example.com", user["email"])
}

func TestProfileUpdateDuplicateEmailShouldKeepStoredUser(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "email already in use"})
	}))

	original := &models.UserRecord{ID: 7, Name: "Maria", Email: "maria@example.com"}
	require.NoError(t, store.Save(context.Background(), "sid-prof", "tok-xyz", original))
	cookie := &http.Cookie{Name: testCookieName, Value: "sid-prof"}

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/auth/profile", map[string]string{
		"name":  "Maria",
		"email": "ocupado@example.com",
	}, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, msgDuplicateEmail, body["error"])

	sess, err := store.Read(context.Background(), "sid-prof")
	require.NoError(t, err)
	require.NotNil(t, sess.User)
	assert.Equal(t, "maria@example.com", sess.User.Email, "rejected update must not touch the stored user")
}

func TestWatchlistRejectedTokenShouldForceLogout(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	require.NoError(t, store.Save(context.Background(), "sid-stale", "tok-revoked", &models.UserRecord{ID: 7}))
	cookie := &http.Cookie{Name: testCookieName, Value: "sid-stale"}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/watchlist/", nil, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, msgSessionExpired, body["error"])
	assert.Equal(t, 0, store.Len(), "a rejected token clears the session")

	// The next guarded request is anonymous again
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginBackendDownShouldReturnConnectivityMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	app, _ := newApp(t, srv.URL)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "senha123!",
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, msgServerUnreachable, body["error"])
}

func TestWatchlistFilterShouldPartitionResponse(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		at := time.Now()
		json.NewEncoder(w).Encode(map[string]any{
			"watchlist": []models.WatchlistEntry{
				{ID: 1, TMDBMovieID: 603, Title: "Matrix", AddedAt: at},
				{ID: 2, TMDBMovieID: 550, Title: "Clube da Luta", AddedAt: at, Watched: true, WatchedAt: &at},
			},
		})
	}))

	require.NoError(t, store.Save(context.Background(), "sid-wl", "tok-xyz", &models.UserRecord{ID: 7}))
	cookie := &http.Cookie{Name: testCookieName, Value: "sid-wl"}

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/watchlist/?filter=watched", nil, cookie))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "watched", body["filter"])
	assert.Equal(t, float64(2), body["total"], "total counts the full list, not the partition")

	list, ok := body["watchlist"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	first, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Clube da Luta", first["title"])
}

func TestDeleteAccountWithoutConfirmShouldBeRejected(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unconfirmed deletion must not reach the backend")
	}))

	require.NoError(t, store.Save(context.Background(), "sid-del", "tok-xyz", &models.UserRecord{ID: 7}))
	cookie := &http.Cookie{Name: testCookieName, Value: "sid-del"}

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/auth/account", map[string]any{
		"password": "senha123!",
		"confirm":  false,
	}, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, store.Len(), "session stays intact")
}

func TestLogoutShouldClearSessionAndViewModel(t *testing.T) {
	app, store := newBackendApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("logout is local, no backend call")
	}))

	require.NoError(t, store.Save(context.Background(), "sid-out", "tok-xyz", &models.UserRecord{ID: 7}))
	cookie := &http.Cookie{Name: testCookieName, Value: "sid-out"}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, store.Len())

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/auth/me", nil, cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
