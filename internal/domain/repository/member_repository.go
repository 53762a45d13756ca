// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrMemberNotFound is returned when no member matches the lookup.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateEmail is returned when a member with the same email already exists.
	ErrDuplicateEmail = errors.New("member email already exists")
)

// MemberRepository defines the standard operations for member persistence.
type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)

	// FindByEmail looks a member up by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)

	// Create assigns the member an ID and persists it.
	Create(ctx context.Context, member *entity.Member) error

	Update(ctx context.Context, member *entity.Member) error
}
