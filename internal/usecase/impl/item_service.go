package impl

import (
	"context"
	"log/slog"
	"strings"

	"shop/config"
	deliverycontext "shop/internal/delivery/context"
	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/repository"
	"shop/internal/domain/service"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type itemService struct {
	txManager     repository.TransactionManager
	itemRepo      repository.ItemRepository
	itemImageRepo repository.ItemImageRepository
	imageStore    service.ImageStore
	qrService     service.QRCodeService
	publicBaseURL string
	logger        *slog.Logger
}

// ItemServiceParams holds dependencies for ItemService, injected by Fx.
type ItemServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	ItemRepo      repository.ItemRepository
	ItemImageRepo repository.ItemImageRepository
	ImageStore    service.ImageStore
	QRService     service.QRCodeService
	Config        *config.Config
	Logger        *slog.Logger
}

// NewItemService is the constructor for itemService.
func NewItemService(params ItemServiceParams) usecase.ItemUsecase {
	publicBaseURL := ""
	if params.Config != nil && params.Config.Shop != nil {
		publicBaseURL = strings.TrimRight(params.Config.Shop.PublicBaseURL, "/")
	}

	return &itemService{
		txManager:     params.TxManager,
		itemRepo:      params.ItemRepo,
		itemImageRepo: params.ItemImageRepo,
		imageStore:    params.ImageStore,
		qrService:     params.QRService,
		publicBaseURL: publicBaseURL,
		logger:        params.Logger,
	}
}

func (srv *itemService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterItem stores the images, then persists the item and its image rows
// in one transaction. Stored objects are removed again if the transaction fails.
func (srv *itemService) RegisterItem(ctx context.Context, input *usecase.RegisterItemInput, actor string) (uuid.UUID, error) {
	if len(input.Images) == 0 || len(input.Images[0].Data) == 0 {
		return uuid.Nil, domainerrors.ErrItemImageRequired
	}

	item, err := entity.NewItem(input.Name, input.Price, input.Stock, input.SellStatus, input.Description)
	if err != nil {
		return uuid.Nil, err
	}

	stored := make([]*service.StoredImage, 0, len(input.Images))
	for _, upload := range input.Images {
		if len(upload.Data) == 0 {
			continue
		}
		img, err := srv.imageStore.Put(ctx, upload.OriginalName, upload.ContentType, upload.Data)
		if err != nil {
			srv.discardImages(ctx, stored)

			return uuid.Nil, domainerrors.ErrImageStoreFailed.WrapMessage(err.Error())
		}
		stored = append(stored, img)
	}

	err = srv.txManager.Execute(ctx, actor, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ItemRepo().Create(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create item")
		}

		imageRepo := repoFactory.ItemImageRepo()
		names := nonEmptyUploads(input.Images)
		for i, img := range stored {
			image := &entity.ItemImage{
				ItemID:         item.ID,
				ObjectKey:      img.Key,
				OriginalName:   names[i],
				URL:            img.URL,
				Representative: i == 0,
			}
			if err := imageRepo.Create(ctx, image); err != nil {
				return errors.Wrap(translateRepoError(err), "failed to create item image")
			}
		}

		return nil
	})
	if err != nil {
		srv.discardImages(ctx, stored)
		srv.log(ctx).Error("Item registration failed", slog.String("name", input.Name), slog.Any("error", err))

		return uuid.Nil, errors.Wrap(err, "failed to register item")
	}

	srv.log(ctx).Info("Item registered", slog.Any("itemID", item.ID), slog.Int("images", len(stored)))

	return item.ID, nil
}

func nonEmptyUploads(uploads []usecase.ImageUpload) []string {
	names := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if len(upload.Data) > 0 {
			names = append(names, upload.OriginalName)
		}
	}

	return names
}

func (srv *itemService) discardImages(ctx context.Context, images []*service.StoredImage) {
	for _, img := range images {
		if err := srv.imageStore.Delete(ctx, img.Key); err != nil {
			srv.log(ctx).Warn("Failed to delete orphaned image", slog.String("key", img.Key), slog.Any("error", err))
		}
	}
}

// UpdateItem overwrites the editable fields under a row lock and a version check.
func (srv *itemService) UpdateItem(ctx context.Context, input *usecase.UpdateItemInput, actor string) error {
	err := srv.txManager.Execute(ctx, actor, func(repoFactory repository.RepositoryFactory) error {
		itemRepo := repoFactory.ItemRepo()

		item, err := itemRepo.FindByIDForUpdate(ctx, input.ID)
		if err != nil {
			return translateRepoError(err)
		}
		if input.Version != 0 && input.Version != item.Version {
			return domainerrors.ErrConcurrentModification
		}

		if err := item.Update(input.Name, input.Price, input.Stock, input.SellStatus, input.Description); err != nil {
			return err
		}

		return translateRepoError(itemRepo.Update(ctx, item))
	})
	if err != nil {
		return errors.Wrap(err, "failed to update item")
	}

	return nil
}

// GetItem returns the item with its images.
func (srv *itemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.ItemDetail, error) {
	item, err := srv.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}

	images, err := srv.itemImageRepo.FindByItemID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load item images")
	}

	return &entity.ItemDetail{Item: item, Images: images}, nil
}

func (srv *itemService) SearchAdminItems(ctx context.Context, search entity.ItemSearch, page entity.Page) (*entity.PageResult[*entity.Item], error) {
	result, err := srv.itemRepo.SearchAdmin(ctx, search, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search items")
	}

	return result, nil
}

func (srv *itemService) SearchMainItems(ctx context.Context, query string, page entity.Page) (*entity.PageResult[*entity.MainItem], error) {
	result, err := srv.itemRepo.SearchMain(ctx, strings.TrimSpace(query), page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search items")
	}

	return result, nil
}

// ItemQRCode renders the share code of an existing item.
func (srv *itemService) ItemQRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := srv.itemRepo.FindByID(ctx, id); err != nil {
		return nil, translateRepoError(err)
	}

	png, err := srv.qrService.GenerateItemQR(id, srv.publicBaseURL+"/items/"+id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate item qr code")
	}

	return png, nil
}

func (srv *itemService) ResolveItemQR(ctx context.Context, qrData string) (*entity.ItemDetail, error) {
	itemID, err := srv.qrService.ParseItemQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrInvalidQRCode.WithDetails(err.Error())
	}

	return srv.GetItem(ctx, itemID)
}
