package postgres

import (
	"context"

	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type itemImageRepository struct {
	db *gorm.DB
}

// NewItemImageRepository is the constructor for itemImageRepository.
func NewItemImageRepository(db *gorm.DB) repository.ItemImageRepository {
	return &itemImageRepository{db: db}
}

func (repo *itemImageRepository) Create(ctx context.Context, image *entity.ItemImage) error {
	id, err := ensureID(image.ID)
	if err != nil {
		return err
	}
	imageM := &model.ItemImageModel{
		ID:             id,
		ItemID:         image.ItemID,
		ObjectKey:      image.ObjectKey,
		OriginalName:   image.OriginalName,
		URL:            image.URL,
		Representative: image.Representative,
	}

	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrItemNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "create item image")
	}

	image.ID = imageM.ID
	image.Audit = imageM.ToAudit()

	return nil
}

func (repo *itemImageRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*entity.ItemImage, error) {
	var imageMs []model.ItemImageModel
	err := repo.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("representative DESC").
		Order("created_at ASC").
		Find(&imageMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "find item images")
	}

	images := make([]*entity.ItemImage, 0, len(imageMs))
	for i := range imageMs {
		images = append(images, toItemImageDomain(&imageMs[i]))
	}

	return images, nil
}

func (repo *itemImageRepository) RepresentativeURLs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	urls := make(map[uuid.UUID]string, len(itemIDs))
	if len(itemIDs) == 0 {
		return urls, nil
	}

	var imageMs []model.ItemImageModel
	err := repo.db.WithContext(ctx).
		Where("item_id IN ? AND representative = ?", itemIDs, true).
		Find(&imageMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "find representative images")
	}
	for _, imageM := range imageMs {
		urls[imageM.ItemID] = imageM.URL
	}

	return urls, nil
}

func toItemImageDomain(imageM *model.ItemImageModel) *entity.ItemImage {
	return &entity.ItemImage{
		ID:             imageM.ID,
		ItemID:         imageM.ItemID,
		ObjectKey:      imageM.ObjectKey,
		OriginalName:   imageM.OriginalName,
		URL:            imageM.URL,
		Representative: imageM.Representative,
		Audit:          imageM.ToAudit(),
	}
}
