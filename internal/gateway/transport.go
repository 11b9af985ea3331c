package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TokenSource supplies the stored bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// bearerTransport attaches the stored token as a bearer credential to every
// request it carries. Login and register go through a plain client instead,
// so a stale or foreign token can never corrupt a fresh auth attempt.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(req)
}

// newAuthedClient wraps base's transport with the bearer interceptor.
func newAuthedClient(base *http.Client, tokens TokenSource) *http.Client {
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{
		Transport: &bearerTransport{base: rt, tokens: tokens},
		Timeout:   base.Timeout,
	}
}

// NewHTTPClient builds the shared plain HTTP client for gateway requests.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doJSON issues a request with an optional JSON body and maps transport
// failures to ErrNetworkUnreachable. The caller owns the response body.
func doJSON(ctx context.Context, client *http.Client, method, url string, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	return resp, nil
}
