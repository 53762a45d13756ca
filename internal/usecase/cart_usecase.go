package usecase

import (
	"context"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

// AddToCartInput defines an item added to the member's cart.
type AddToCartInput struct {
	ItemID      uuid.UUID
	Quantity    int
	MemberEmail string
}

// UpdateCartItemInput overwrites the quantity of a cart line.
type UpdateCartItemInput struct {
	CartItemID  uuid.UUID
	Quantity    int
	MemberEmail string
}

// OrderCartItemsInput selects the cart lines to order.
type OrderCartItemsInput struct {
	CartItemIDs []uuid.UUID
	MemberEmail string
}

// CartUsecase defines the shopping cart workflow.
type CartUsecase interface {
	AddToCart(ctx context.Context, input *AddToCartInput) (uuid.UUID, error)
	UpdateCartItemQuantity(ctx context.Context, input *UpdateCartItemInput) error
	DeleteCartItem(ctx context.Context, cartItemID uuid.UUID, email string) error
	ListCart(ctx context.Context, email string) ([]*entity.CartDetail, error)
	// OrderCartItems places one order for the selected lines and removes them from the cart.
	OrderCartItems(ctx context.Context, input *OrderCartItemsInput) (uuid.UUID, error)
}
