package model

import "github.com/google/uuid"

// MemberModel mirrors the 'members' table.
type MemberModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	Address      string    `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Social       bool      `gorm:"not null;default:false"`
	Provider     *string   `gorm:"type:varchar(50)"`
	AuditModel
}

// TableName explicitly sets the table name for GORM.
func (MemberModel) TableName() string {
	return "members"
}
