package model

import "github.com/google/uuid"

// CartModel mirrors the 'carts' table. A member owns at most one cart.
type CartModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table.
type CartItemModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_item"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_item"`
	Quantity int       `gorm:"not null"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
