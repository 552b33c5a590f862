// Package csrf is a client for the shop admin CSRF endpoints. A Manager caches the
// session's double-submit token in memory and in a persistent Store, and a Transport
// attaches it to mutating requests.
package csrf

import (
	"errors"
	"fmt"
	"time"
)

// ExpiryBuffer is how long before its expiry a token stops being handed out.
const ExpiryBuffer = 5 * time.Minute

// FetchTimeout bounds a token fetch shared by concurrent callers.
const FetchTimeout = 30 * time.Second

// HeaderName is the request header the server reads the token from.
const HeaderName = "X-CSRF-Token"

// StatusCSRFMismatch is the status the server answers when the token is missing or stale.
const StatusCSRFMismatch = 419

// ErrCSRFMismatch is returned by Transport when a request is still rejected after a refresh.
var ErrCSRFMismatch = errors.New("csrf token rejected after refresh")

// Token is a CSRF token together with its server-side expiry.
type Token struct {
	Value     string    `json:"csrf_token" yaml:"csrf_token"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// usableAt reports whether the token can still be sent at now.
func (t *Token) usableAt(now time.Time) bool {
	return t != nil && t.Value != "" && now.Before(t.ExpiresAt.Add(-ExpiryBuffer))
}

type State int

const (
	StateUninitialized State = iota
	StateValid
	StateExpiringSoon
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValid:
		return "valid"
	case StateExpiringSoon:
		return "expiring_soon"
	case StateExpired:
		return "expired"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func stateAt(t *Token, now time.Time) State {
	switch {
	case t == nil || t.Value == "":
		return StateUninitialized
	case !now.Before(t.ExpiresAt):
		return StateExpired
	case !now.Before(t.ExpiresAt.Add(-ExpiryBuffer)):
		return StateExpiringSoon
	}
	return StateValid
}

// APIError is a non-2xx answer from a CSRF endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}
