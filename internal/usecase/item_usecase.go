package usecase

import (
	"context"

	"shop/internal/domain/entity"

	"github.com/google/uuid"
)

// ImageUpload is one uploaded item picture.
type ImageUpload struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

// RegisterItemInput defines a new catalog item. The first image becomes the representative one.
type RegisterItemInput struct {
	Name        string
	Price       int64
	Stock       int
	SellStatus  entity.SellStatus
	Description string
	Images      []ImageUpload
}

// UpdateItemInput overwrites the editable fields of an item. A non-zero
// Version must match the stored version.
type UpdateItemInput struct {
	ID          uuid.UUID
	Name        string
	Price       int64
	Stock       int
	SellStatus  entity.SellStatus
	Description string
	Version     int64
}

// ItemUsecase defines catalog management and browsing.
type ItemUsecase interface {
	RegisterItem(ctx context.Context, input *RegisterItemInput, actor string) (uuid.UUID, error)
	UpdateItem(ctx context.Context, input *UpdateItemInput, actor string) error
	GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error)
	SearchAdminItems(ctx context.Context, search entity.ItemSearch, page entity.Page) (*entity.PageResult[*entity.Item], error)
	SearchMainItems(ctx context.Context, query string, page entity.Page) (*entity.PageResult[*entity.MainItem], error)
	// ItemQRCode renders a PNG QR code linking to the public item page.
	ItemQRCode(ctx context.Context, id uuid.UUID) ([]byte, error)
	// ResolveItemQR returns the item behind the scanned text of a share code.
	ResolveItemQR(ctx context.Context, qrData string) (*entity.ItemDetail, error)
}
