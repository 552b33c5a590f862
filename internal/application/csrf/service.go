// Package csrf issues and verifies the per-session tokens used by the double-submit check.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/biztime"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

const (
	tokenBytes = 32

	// DefaultTokenTTL is used when the configured lifetime is zero.
	DefaultTokenTTL = 2 * time.Hour
)

// ErrEmptySession is returned when a caller has no session identifier.
var ErrEmptySession = errors.New("session id cannot be empty")

// Entry is the token state kept server side for one session.
type Entry struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists one Entry per session. Get returns (nil, nil) when nothing is stored.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Entry, error)
	Put(ctx context.Context, sessionID string, entry Entry, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

type Service struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger logger.Interface
}

func NewService(store Store, ttl time.Duration, log logger.Interface) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		store:  store,
		ttl:    ttl,
		now:    biztime.NowUTC,
		logger: log,
	}
}

// TTL returns the lifetime given to freshly minted tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue returns the session's live token, minting a new one when none is stored or it has expired.
func (s *Service) Issue(ctx context.Context, sessionID string) (*Entry, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}

	entry, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Errorw("failed to load csrf token", "error", err)
		return nil, fmt.Errorf("failed to load csrf token: %w", err)
	}
	if entry != nil && s.now().Before(entry.ExpiresAt) {
		return entry, nil
	}

	return s.mint(ctx, sessionID)
}

// Refresh rotates the session's token unconditionally.
func (s *Service) Refresh(ctx context.Context, sessionID string) (*Entry, error) {
	if sessionID == "" {
		return nil, ErrEmptySession
	}
	return s.mint(ctx, sessionID)
}

// Verify reports whether presented matches the session's stored, unexpired token.
// A store failure is returned as an error, never as a successful check.
func (s *Service) Verify(ctx context.Context, sessionID, presented string) (bool, error) {
	if sessionID == "" || presented == "" {
		return false, nil
	}

	entry, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load csrf token: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	if !s.now().Before(entry.ExpiresAt) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warnw("failed to delete expired csrf token", "error", err)
		}
		return false, nil
	}

	return Equal(entry.Token, presented), nil
}

func (s *Service) mint(ctx context.Context, sessionID string) (*Entry, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Token:     token,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Put(ctx, sessionID, entry, s.ttl); err != nil {
		s.logger.Errorw("failed to store csrf token", "error", err)
		return nil, fmt.Errorf("failed to store csrf token: %w", err)
	}

	return &entry, nil
}

// Equal compares two tokens in constant time.
func Equal(stored, presented string) bool {
	if len(stored) == 0 || len(presented) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
