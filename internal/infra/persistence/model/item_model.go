package model

import "github.com/google/uuid"

// ItemModel mirrors the 'items' table.
type ItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(50);not null;index"`
	Price       int64     `gorm:"not null"`
	Stock       int       `gorm:"not null"`
	SellStatus  string    `gorm:"type:varchar(20);not null"`
	Description string    `gorm:"type:text;not null"`
	Version     int64     `gorm:"not null;default:1"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (ItemModel) TableName() string {
	return "items"
}

// ItemImageModel mirrors the 'item_images' table.
type ItemImageModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ObjectKey      string    `gorm:"type:varchar(255);not null"`
	OriginalName   string    `gorm:"type:varchar(255)"`
	URL            string    `gorm:"type:varchar(1024);not null"`
	Representative bool      `gorm:"not null;default:false"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (ItemImageModel) TableName() string {
	return "item_images"
}
