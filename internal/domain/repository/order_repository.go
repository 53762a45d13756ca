package repository

import (
	"context"
	"errors"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists the order aggregate. It is the only writer of order items.
type OrderRepository interface {
	// FindByID loads the order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate loads the order with its items and locks the order row.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// Create inserts the order and all of its items.
	Create(ctx context.Context, order *entity.Order) error

	// Update writes the order row, upserts its current items and deletes the
	// stored items no longer present in the aggregate.
	Update(ctx context.Context, order *entity.Order) error

	// ListHistory returns a member's orders newest first, with item names and representative images.
	ListHistory(ctx context.Context, memberID uuid.UUID, page entity.Page) (*entity.PageResult[*entity.OrderHistory], error)
}
