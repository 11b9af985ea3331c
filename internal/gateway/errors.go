package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error taxonomy for the TrackFilmes API. Gateways never swallow errors:
// they log, map the HTTP status to one of these kinds and return it to the
// caller, which owns the user-visible message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")      // 401 on auth-sensitive endpoints
	ErrDuplicateEmail     = errors.New("email already in use")           // 409
	ErrUnauthenticated    = errors.New("session token rejected")         // 401 on protected endpoints
	ErrNetworkUnreachable = errors.New("no response from server")        // request sent, nothing came back
	ErrMalformedResponse  = errors.New("malformed server response")      // typed decode failed
)

// ServerError is any other non-2xx answer, carrying the server-supplied
// message when one was present in the payload.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected request with status %d", e.Status)
	}
	return fmt.Sprintf("server rejected request with status %d: %s", e.Status, e.Message)
}

// mapStatusError translates a non-2xx response into the taxonomy.
// authSensitive marks endpoints where a 401 means "wrong password" rather
// than "stale session token".
func mapStatusError(resp *http.Response, authSensitive bool) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && authSensitive:
		return ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode == http.StatusConflict:
		return ErrDuplicateEmail
	}
	return &ServerError{Status: resp.StatusCode, Message: msg}
}
