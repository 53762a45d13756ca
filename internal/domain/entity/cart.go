package entity

import (
	"time"

	domainerrors "shop/internal/domain/errors"

	"github.com/google/uuid"
)

// MaxCartQuantity caps the quantity a single cart line can hold.
const MaxCartQuantity = 9999

// Cart is the shopping cart of a single member, created lazily.
type Cart struct {
	ID       uuid.UUID
	MemberID uuid.UUID
	Audit
}

// CartItem is one item line in a cart. A cart holds at most one line per item.
type CartItem struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int
	Audit
}

// NewCartItem builds a cart line; quantity must be in [1, MaxCartQuantity].
func NewCartItem(cartID, itemID uuid.UUID, quantity int) (*CartItem, error) {
	if quantity < 1 || quantity > MaxCartQuantity {
		return nil, domainerrors.ErrInvalidQuantity
	}

	return &CartItem{CartID: cartID, ItemID: itemID, Quantity: quantity}, nil
}

// AddQuantity merges another add-to-cart of the same item into this line.
// The merged quantity may not exceed MaxCartQuantity.
func (ci *CartItem) AddQuantity(quantity int) error {
	if quantity < 1 {
		return domainerrors.ErrInvalidQuantity
	}
	if quantity > MaxCartQuantity-ci.Quantity {
		return domainerrors.ErrInvalidQuantity.WithDetails("cart line would exceed the maximum quantity")
	}
	ci.Quantity += quantity

	return nil
}

// UpdateQuantity overwrites the quantity of the line.
func (ci *CartItem) UpdateQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxCartQuantity {
		return domainerrors.ErrInvalidQuantity
	}
	ci.Quantity = quantity

	return nil
}

// CartDetail is the denormalized row shown on the cart page.
type CartDetail struct {
	CartItemID uuid.UUID
	ItemID     uuid.UUID
	ItemName   string
	Price      int64
	Quantity   int
	ImageURL   string
	AddedAt    time.Time
}
