package entity

import (
	"time"

	domainerrors "shop/internal/domain/errors"

	"github.com/google/uuid"
)

// OrderStatus is the state of an order. ORDER may move to CANCEL, which is terminal.
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// Order is the aggregate root owning its order items.
type Order struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	OrderDate time.Time
	Status    OrderStatus
	Items     []*OrderItem
	Audit
}

// OrderItem is one line of an order. OrderPrice is the unit price at order time.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	Quantity   int
	OrderPrice int64
	// Item is the catalog row the line draws stock from. It is attached by the
	// workflows that move stock and is nil on plain reads.
	Item *Item
	Audit
}

// NewOrderItem snapshots the item's price and deducts quantity from its stock.
func NewOrderItem(item *Item, quantity int) (*OrderItem, error) {
	if err := item.RemoveStock(quantity); err != nil {
		return nil, err
	}

	return &OrderItem{
		ItemID:     item.ID,
		Quantity:   quantity,
		OrderPrice: item.Price,
		Item:       item,
	}, nil
}

// TotalPrice is the price of the line.
func (oi *OrderItem) TotalPrice() int64 {
	return oi.OrderPrice * int64(oi.Quantity)
}

// NewOrder builds a placed order for memberID from already built lines.
func NewOrder(memberID uuid.UUID, items []*OrderItem, orderedAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}

	return &Order{
		MemberID:  memberID,
		OrderDate: orderedAt,
		Status:    OrderStatusOrder,
		Items:     items,
	}, nil
}

// TotalPrice sums quantity times order price over all lines.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, oi := range o.Items {
		total += oi.TotalPrice()
	}

	return total
}

// Cancel moves the order to CANCEL and returns every line's quantity to its item.
// Every line must have its Item attached. Cancelling a cancelled order fails and
// leaves stock untouched.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusOrder {
		return domainerrors.ErrOrderNotCancellable.WithDetails("order status is " + string(o.Status))
	}
	for _, oi := range o.Items {
		if oi.Item == nil {
			return domainerrors.ErrItemNotFound.WithDetails("order line " + oi.ID.String() + " has no item attached")
		}
	}
	for _, oi := range o.Items {
		oi.Item.AddStock(oi.Quantity)
	}
	o.Status = OrderStatusCancel

	return nil
}

// RemoveItem detaches the line with the given id from the aggregate.
// Saving the order afterwards deletes the line.
func (o *Order) RemoveItem(orderItemID uuid.UUID) bool {
	for i, oi := range o.Items {
		if oi.ID == orderItemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)

			return true
		}
	}

	return false
}

// OwnedBy reports whether memberID placed the order.
func (o *Order) OwnedBy(memberID uuid.UUID) bool {
	return o.MemberID == memberID
}

// OrderHistoryLine is a line in the order history view.
type OrderHistoryLine struct {
	ItemID     uuid.UUID
	ItemName   string
	Quantity   int
	OrderPrice int64
	ImageURL   string
}

// OrderHistory is one order in the order history view.
type OrderHistory struct {
	OrderID    uuid.UUID
	OrderDate  time.Time
	Status     OrderStatus
	TotalPrice int64
	Lines      []OrderHistoryLine
}
