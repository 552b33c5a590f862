package apitoken

import (
	"context"
	"time"
)

// Repository persists API tokens. Getters return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, token *APIToken) error
	GetBySID(ctx context.Context, sid string) (*APIToken, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*APIToken, error)
	ListByUserID(ctx context.Context, userID uint) ([]*APIToken, error)
	Update(ctx context.Context, token *APIToken) error
	// UpdateLastUsed writes only last_used_at, so concurrent revocations are not overwritten.
	UpdateLastUsed(ctx context.Context, tokenID uint, usedAt time.Time) error
	// DeleteExpiredBefore removes tokens whose expiry is older than cutoff and returns the count.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
