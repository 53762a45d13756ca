package service

import (
	"context"
	"time"
)

// OrderEventType names what happened to an order.
type OrderEventType string

const (
	OrderEventPlaced    OrderEventType = "order.placed"
	OrderEventCancelled OrderEventType = "order.cancelled"
)

// OrderEventLine is one order line carried in an OrderEvent.
type OrderEventLine struct {
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
	OrderPrice int64  `json:"order_price"`
}

// OrderEvent is published after an order state change has been committed.
type OrderEvent struct {
	RequestID   string           `json:"request_id,omitempty"` // For distributed tracing
	Type        OrderEventType   `json:"type"`
	OrderID     string           `json:"order_id"`
	MemberEmail string           `json:"member_email"`
	TotalPrice  int64            `json:"total_price"`
	Lines       []OrderEventLine `json:"lines"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
