// Package entity contains the core business objects of the shop,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// SystemActor is recorded as the creator or modifier when no principal is acting,
// e.g. a member signing up for themselves before they exist.
const SystemActor = "system"

// Audit is the set of bookkeeping columns shared by every persisted record.
// The persistence layer stamps it from the principal passed into the transaction.
type Audit struct {
	CreatedBy  string
	ModifiedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
