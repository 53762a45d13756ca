package repository

import (
	"context"
	"errors"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound is returned when no item matches the lookup.
	ErrItemNotFound = errors.New("item not found")
	// ErrVersionConflict is returned when an optimistic update finds a newer version.
	ErrVersionConflict = errors.New("record version conflict")
)

// ItemRepository defines persistence operations for catalog items.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)

	// FindByIDForUpdate reads the item from the primary and locks its row until
	// the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Item, error)


	// Create assigns the item an ID and persists it with version 1.
	Create(ctx context.Context, item *entity.Item) error

	// Update writes the item if its stored version still equals item.Version and
	// bumps the version. ErrVersionConflict is returned otherwise.
	Update(ctx context.Context, item *entity.Item) error

	FindByName(ctx context.Context, name string) ([]*entity.Item, error)
	FindByNameOrDescription(ctx context.Context, name, description string) ([]*entity.Item, error)
	FindByPriceLessThan(ctx context.Context, price int64) ([]*entity.Item, error)

	// FindByDescription matches a description substring, most expensive first.
	FindByDescription(ctx context.Context, description string) ([]*entity.Item, error)

	// SearchAdmin applies the admin filter and returns a page, newest first.
	SearchAdmin(ctx context.Context, search entity.ItemSearch, page entity.Page) (*entity.PageResult[*entity.Item], error)

	// SearchMain returns storefront rows whose name contains query, newest first.
	SearchMain(ctx context.Context, query string, page entity.Page) (*entity.PageResult[*entity.MainItem], error)
}

// ItemImageRepository defines persistence operations for item images.
type ItemImageRepository interface {
	Create(ctx context.Context, image *entity.ItemImage) error

	// FindByItemID returns the images of an item, representative first.
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.ItemImage, error)

	// RepresentativeURLs maps item ids to the URL of their representative image.
	RepresentativeURLs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]string, error)
}
