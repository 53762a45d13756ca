package postgres

import (
	"context"
	"testing"

	"shop/internal/domain/entity"
	"shop/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	member := entity.NewMember("Kim", "  Kim@Shop.Test ", "hash", "Busan")
	require.NoError(t, repo.Create(ctx, member))
	assert.NotEqual(t, uuid.Nil, member.ID)

	found, err := repo.FindByEmail(ctx, "kim@shop.test")
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)
	assert.Equal(t, "kim@shop.test", found.Email)
	assert.Equal(t, entity.RoleUser, found.Role)
	assert.True(t, found.HasPassword())

	byID, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Email, byID.Email)
}

func TestMemberRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, entity.NewMember("a", "dup@shop.test", "hash", "")))

	err := repo.Create(ctx, entity.NewMember("b", "DUP@shop.test", "hash", ""))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestMemberRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@shop.test")
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)

	err = repo.Update(ctx, &entity.Member{ID: uuid.New(), Role: entity.RoleUser})
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
}

func TestMemberRepository_UpdateSocialProfile(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	member := entity.NewSocialMember("Default User", "social@shop.test", "kakao")
	require.NoError(t, repo.Create(ctx, member))
	assert.False(t, member.HasPassword())

	member.UpdateSocialProfile("google", "Lee")
	require.NoError(t, repo.Update(ctx, member))

	found, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lee", found.Name)
	require.NotNil(t, found.Provider)
	assert.Equal(t, "google", *found.Provider)
	assert.True(t, found.Social)
	assert.Nil(t, found.PasswordHash)
}
