package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MemberID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderDate time.Time        `gorm:"not null"`
	Status    string           `gorm:"type:varchar(20);not null"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Rows are owned by their order.
type OrderItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`
	OrderPrice int64     `gorm:"not null"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// All lists every table model in dependency order, for migrations.
func All() []any {
	return []any{
		&MemberModel{},
		&ItemModel{},
		&ItemImageModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
