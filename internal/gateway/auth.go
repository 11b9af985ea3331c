package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
	"github.com/miyashiroo/trackfilmes-frontend/internal/session"
)

// AuthGateway translates auth operations into TrackFilmes API requests and
// keeps the session store in step with their outcomes.
type AuthGateway struct {
	baseURL string
	public  *http.Client
	authed  *http.Client
	sess    *session.Handle
}

// NewAuthGateway creates a gateway bound to one browser session. base is the
// shared HTTP client; register and login use it as-is (unauthenticated by
// construction), every other call goes through the bearer interceptor.
func NewAuthGateway(baseURL string, base *http.Client, sess *session.Handle) *AuthGateway {
	return &AuthGateway{
		baseURL: baseURL,
		public:  base,
		authed:  newAuthedClient(base, sess),
		sess:    sess,
	}
}

// Register creates a new account. No session state changes: the caller is
// expected to log in afterwards.
func (g *AuthGateway) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := doJSON(ctx, g.public, http.MethodPost, g.baseURL+"/auth/register", req)
	if err != nil {
		slog.Error("register request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("register rejected", "status", resp.StatusCode, "error", err)
		return err
	}
	return nil
}

type loginResponse struct {
	Token string             `json:"token"`
	User  *models.UserRecord `json:"user"`
}

// Login authenticates and, on success, saves the token and user to the
// session store before returning the user record.
func (g *AuthGateway) Login(ctx context.Context, creds models.Credentials) (*models.UserRecord, error) {
	resp, err := doJSON(ctx, g.public, http.MethodPost, g.baseURL+"/auth/login", creds)
	if err != nil {
		slog.Error("login request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, true)
		slog.Error("login rejected", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Token == "" || payload.User == nil {
		return nil, fmt.Errorf("%w: login response missing token or user", ErrMalformedResponse)
	}

	if err := g.sess.Save(ctx, payload.Token, payload.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	slog.Info("login succeeded", "user_id", payload.User.ID)
	return payload.User, nil
}

type profileResponse struct {
	User *models.UserRecord `json:"user"`
}

// UpdateProfile replaces the profile fields. On success the stored user is
// overwritten from the response payload, not merged.
func (g *AuthGateway) UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.UserRecord, error) {
	resp, err := doJSON(ctx, g.authed, http.MethodPut, g.baseURL+"/auth/profile", patch)
	if err != nil {
		slog.Error("profile update request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, false)
		slog.Error("profile update rejected", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	var payload profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.User == nil {
		return nil, fmt.Errorf("%w: profile response missing user", ErrMalformedResponse)
	}

	if err := g.sess.SaveUser(ctx, payload.User); err != nil {
		return nil, fmt.Errorf("failed to persist updated user: %w", err)
	}
	return payload.User, nil
}

// ChangePassword swaps the account password. No local state changes on
// success; a 401 means the current password was wrong.
func (g *AuthGateway) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	resp, err := doJSON(ctx, g.authed, http.MethodPut, g.baseURL+"/auth/password", change)
	if err != nil {
		slog.Error("password change request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, true)
		slog.Error("password change rejected", "status", resp.StatusCode, "error", err)
		return err
	}
	return nil
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// DeleteAccount destroys the account and clears the session store. The call
// site is responsible for explicit user confirmation before invoking this:
// it is destructive and irreversible.
func (g *AuthGateway) DeleteAccount(ctx context.Context, password string) error {
	resp, err := doJSON(ctx, g.authed, http.MethodDelete, g.baseURL+"/users/delete", deleteAccountRequest{Password: password})
	if err != nil {
		slog.Error("account deletion request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := mapStatusError(resp, true)
		slog.Error("account deletion rejected", "status", resp.StatusCode, "error", err)
		return err
	}

	if err := g.sess.Clear(ctx); err != nil {
		return fmt.Errorf("account deleted but session clear failed: %w", err)
	}
	slog.Info("account deleted")
	return nil
}

// Logout clears the session store. Purely local: the backend holds no
// server-side session to destroy.
func (g *AuthGateway) Logout(ctx context.Context) error {
	return g.sess.Clear(ctx)
}
