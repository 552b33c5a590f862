package order

import (
	"context"
	"time"
)

// ListFilter represents filtering and pagination options for the order list.
type ListFilter struct {
	Page     int
	PageSize int
	Status   Status
	Search   string
}

// Repository persists orders with their items. Getters return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByCode(ctx context.Context, code string) (*Order, error)
	// UpdateStatus persists status, completed_at and updated_at only.
	UpdateStatus(ctx context.Context, order *Order) error
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
	// ListCompletedBetween returns completed orders with completed_at in [start, end],
	// newest first, items loaded.
	ListCompletedBetween(ctx context.Context, start, end time.Time) ([]*Order, error)
}
