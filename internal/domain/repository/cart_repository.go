package repository

import (
	"context"
	"errors"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrCartNotFound is returned when the member has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound is returned when no cart line matches the lookup.
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines persistence operations for carts.
type CartRepository interface {
	FindByMemberID(ctx context.Context, memberID uuid.UUID) (*entity.Cart, error)
	Create(ctx context.Context, cart *entity.Cart) error
}

// CartItemRepository defines persistence operations for cart lines.
type CartItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)
	FindByCartAndItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.CartItem, error)
	Create(ctx context.Context, cartItem *entity.CartItem) error
	Update(ctx context.Context, cartItem *entity.CartItem) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDetails returns the denormalized lines of a cart, most recently added first.
	ListDetails(ctx context.Context, cartID uuid.UUID) ([]*entity.CartDetail, error)
}
