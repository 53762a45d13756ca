package postgres

import (
	"context"
	"time"

	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (repo *cartRepository) FindByMemberID(ctx context.Context, memberID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	if err := repo.db.WithContext(ctx).Where("member_id = ?", memberID).First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find cart by member")
	}

	return &entity.Cart{ID: cartM.ID, MemberID: cartM.MemberID, Audit: cartM.ToAudit()}, nil
}

func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	id, err := ensureID(cart.ID)
	if err != nil {
		return err
	}
	cartM := &model.CartModel{ID: id, MemberID: cart.MemberID}

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "create cart")
	}

	cart.ID = cartM.ID
	cart.Audit = cartM.ToAudit()

	return nil
}

type cartItemRepository struct {
	db *gorm.DB
}

// NewCartItemRepository is the constructor for cartItemRepository.
func NewCartItemRepository(db *gorm.DB) repository.CartItemRepository {
	return &cartItemRepository{db: db}
}

func (repo *cartItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error) {
	return repo.first(ctx, "find cart item", "id = ?", id)
}

func (repo *cartItemRepository) FindByCartAndItem(ctx context.Context, cartID, itemID uuid.UUID) (*entity.CartItem, error) {
	return repo.first(ctx, "find cart item by cart and item", "cart_id = ? AND item_id = ?", cartID, itemID)
}

func (repo *cartItemRepository) first(ctx context.Context, op, query string, args ...any) (*entity.CartItem, error) {
	var cartItemM model.CartItemModel
	if err := repo.db.WithContext(ctx).Where(query, args...).First(&cartItemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartItemNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, op)
	}

	return toCartItemDomain(&cartItemM), nil
}

func (repo *cartItemRepository) Create(ctx context.Context, cartItem *entity.CartItem) error {
	id, err := ensureID(cartItem.ID)
	if err != nil {
		return err
	}
	cartItemM := &model.CartItemModel{
		ID:       id,
		CartID:   cartItem.CartID,
		ItemID:   cartItem.ItemID,
		Quantity: cartItem.Quantity,
	}

	if err := repo.db.WithContext(ctx).Create(cartItemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "create cart item")
	}

	cartItem.ID = cartItemM.ID
	cartItem.Audit = cartItemM.ToAudit()

	return nil
}

func (repo *cartItemRepository) Update(ctx context.Context, cartItem *entity.CartItem) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ?", cartItem.ID).
		Updates(map[string]any{"quantity": cartItem.Quantity})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "update cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

func (repo *cartItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CartItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "delete cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartItemNotFound
	}

	return nil
}

type cartDetailRow struct {
	CartItemID uuid.UUID
	ItemID     uuid.UUID
	ItemName   string
	Price      int64
	Quantity   int
	ImageURL   string
	AddedAt    time.Time
}

// ListDetails joins the cart lines with their items and representative images.
func (repo *cartItemRepository) ListDetails(ctx context.Context, cartID uuid.UUID) ([]*entity.CartDetail, error) {
	var rows []cartDetailRow
	err := repo.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS cart_item_id, items.id AS item_id, items.name AS item_name, items.price, "+
			"cart_items.quantity, COALESCE(item_images.url, '') AS image_url, cart_items.created_at AS added_at").
		Joins("JOIN items ON items.id = cart_items.item_id").
		Joins("LEFT JOIN item_images ON item_images.item_id = items.id AND item_images.representative = ?", true).
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "list cart details")
	}

	details := make([]*entity.CartDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, &entity.CartDetail{
			CartItemID: row.CartItemID,
			ItemID:     row.ItemID,
			ItemName:   row.ItemName,
			Price:      row.Price,
			Quantity:   row.Quantity,
			ImageURL:   row.ImageURL,
			AddedAt:    row.AddedAt,
		})
	}

	return details, nil
}

func toCartItemDomain(cartItemM *model.CartItemModel) *entity.CartItem {
	return &entity.CartItem{
		ID:       cartItemM.ID,
		CartID:   cartItemM.CartID,
		ItemID:   cartItemM.ItemID,
		Quantity: cartItemM.Quantity,
		Audit:    cartItemM.ToAudit(),
	}
}
