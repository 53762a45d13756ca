// Package model holds the GORM models mirroring the database tables.
package model

import (
	"time"

	"shop/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditActorKey is the gorm setting key carrying the acting principal of a transaction.
const AuditActorKey = "shop:audit_actor"

// AuditModel holds the audit columns embedded in every table model.
// Its hooks are promoted to the embedding model and stamp the actor found
// in the statement settings.
type AuditModel struct {
	CreatedBy  string `gorm:"type:varchar(255);not null;default:''"`
	ModifiedBy string `gorm:"type:varchar(255);not null;default:''"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BeforeCreate stamps creator and modifier.
func (a *AuditModel) BeforeCreate(tx *gorm.DB) error {
	actor := ActorOf(tx)
	tx.Statement.SetColumn("CreatedBy", actor, true)
	tx.Statement.SetColumn("ModifiedBy", actor, true)

	return nil
}

// BeforeUpdate stamps the modifier.
func (a *AuditModel) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("ModifiedBy", ActorOf(tx), true)

	return nil
}

// ActorOf returns the actor bound to the session, or entity.SystemActor.
func ActorOf(tx *gorm.DB) string {
	if v, ok := tx.Get(AuditActorKey); ok {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}

	return entity.SystemActor
}

// ToAudit converts the audit columns to the domain value.
func (a AuditModel) ToAudit() entity.Audit {
	return entity.Audit{
		CreatedBy:  a.CreatedBy,
		ModifiedBy: a.ModifiedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// FromAudit converts the domain audit value to columns.
func FromAudit(a entity.Audit) AuditModel {
	return AuditModel{
		CreatedBy:  a.CreatedBy,
		ModifiedBy: a.ModifiedBy,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
