package usecase

import (
	"context"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

// PlaceOrderInput orders a quantity of a single item.
type PlaceOrderInput struct {
	ItemID      uuid.UUID
	Quantity    int
	MemberEmail string
}

// OrderLineInput is one line of a multi-item order.
type OrderLineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// PlaceOrdersInput orders several items at once.
type PlaceOrdersInput struct {
	Lines       []OrderLineInput
	MemberEmail string
}

// CancelOrderInput identifies the order to cancel and who asks for it.
type CancelOrderInput struct {
	OrderID     uuid.UUID
	MemberEmail string
}

// OrderUsecase defines the order workflow.
type OrderUsecase interface {
	PlaceOrder(ctx context.Context, input *PlaceOrderInput) (uuid.UUID, error)
	PlaceOrders(ctx context.Context, input *PlaceOrdersInput) (uuid.UUID, error)
	// CancelOrder cancels a placed order on behalf of its owner or an administrator.
	CancelOrder(ctx context.Context, input *CancelOrderInput) error
	ValidateOrderOwner(ctx context.Context, orderID uuid.UUID, email string) (bool, error)
	History(ctx context.Context, email string, page entity.Page) (*entity.PageResult[*entity.OrderHistory], error)
}
