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
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// itemRepository implements repository.ItemRepository using GORM.
type itemRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewItemRepository is the constructor for itemRepository.
func NewItemRepository(db *gorm.DB) repository.ItemRepository {
	return &itemRepository{db: db, now: time.Now}
}

func (repo *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	return repo.first(repo.db.WithContext(ctx), id, "find item by id")
}

func (repo *itemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	db := repo.db.WithContext(ctx).Clauses(dbresolver.Write, clause.Locking{Strength: "UPDATE"})

	return repo.first(db, id, "lock item by id")
}

func (repo *itemRepository) first(db *gorm.DB, id uuid.UUID, op string) (*entity.Item, error) {
	var itemM model.ItemModel
	if err := db.Where(itemCols.ID.Eq(id)).First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, op)
	}

	return toItemDomain(&itemM), nil
}

func (repo *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	id, err := ensureID(item.ID)
	if err != nil {
		return err
	}
	itemM := fromItemDomain(item)
	itemM.ID = id
	itemM.Version = 1

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "create item")
	}

	item.ID = itemM.ID
	item.Version = itemM.Version
	item.Audit = itemM.ToAudit()

	return nil
}

// Update performs a compare-and-swap on the version column.
func (repo *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ItemModel{}).
		Where(itemCols.ID.Eq(item.ID)).
		Where(itemCols.Version.Eq(item.Version)).
		Updates(map[string]any{
			"name":        item.Name,
			"price":       item.Price,
			"stock":       item.Stock,
			"sell_status": string(item.SellStatus),
			"description": item.Description,
			"version":     item.Version + 1,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "update item")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).Model(&model.ItemModel{}).Where(itemCols.ID.Eq(item.ID)).Count(&count).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "check item existence")
		}
		if count == 0 {
			return repository.ErrItemNotFound
		}

		return repository.ErrVersionConflict
	}

	item.Version++

	return nil
}

func (repo *itemRepository) FindByName(ctx context.Context, name string) ([]*entity.Item, error) {
	return repo.find(ctx, "find items by name", []clause.Expression{itemCols.Name.Eq(name)}, orderBy("created_at", true))
}

func (repo *itemRepository) FindByNameOrDescription(ctx context.Context, name, description string) ([]*entity.Item, error) {
	cond := clause.Or(itemCols.Name.Eq(name), itemCols.Description.Eq(description))

	return repo.find(ctx, "find items by name or description", []clause.Expression{cond}, orderBy("created_at", true))
}

func (repo *itemRepository) FindByPriceLessThan(ctx context.Context, price int64) ([]*entity.Item, error) {
	return repo.find(ctx, "find items by price", []clause.Expression{itemCols.Price.Lt(price)}, orderBy("price", false))
}

func (repo *itemRepository) FindByDescription(ctx context.Context, description string) ([]*entity.Item, error) {
	cond := itemCols.Description.Like(containsPattern(description))

	return repo.find(ctx, "find items by description", []clause.Expression{cond}, orderBy("price", true))
}

func (repo *itemRepository) find(ctx context.Context, op string, conds []clause.Expression, order clause.OrderByColumn) ([]*entity.Item, error) {
	var itemMs []model.ItemModel
	err := where(repo.db.WithContext(ctx), conds).
		Order(order).
		Find(&itemMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, op)
	}

	return toItemDomains(itemMs), nil
}

func (repo *itemRepository) SearchAdmin(ctx context.Context, search entity.ItemSearch, page entity.Page) (*entity.PageResult[*entity.Item], error) {
	conds := newItemPredicate(repo.now()).admin(search)

	var total int64
	if err := where(repo.db.WithContext(ctx).Model(&model.ItemModel{}), conds).Count(&total).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "count admin items")
	}

	var itemMs []model.ItemModel
	err := where(repo.db.WithContext(ctx), conds).
		Order(orderBy("created_at", true)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&itemMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "search admin items")
	}

	return &entity.PageResult[*entity.Item]{
		Items:  toItemDomains(itemMs),
		Total:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

type mainItemRow struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       int64
}

func (repo *itemRepository) SearchMain(ctx context.Context, query string, page entity.Page) (*entity.PageResult[*entity.MainItem], error) {
	base := func() *gorm.DB {
		db := repo.db.WithContext(ctx).
			Table("items").
			Joins("JOIN item_images ON item_images.item_id = items.id AND item_images.representative = ?", true)
		if query != "" {
			db = db.Where("items.name LIKE ?", containsPattern(query))
		}

		return db
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "count main items")
	}

	var rows []mainItemRow
	err := base().
		Select("items.id, items.name, items.description, item_images.url AS image_url, items.price").
		Order("items.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Scan(&rows).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "search main items")
	}

	items := make([]*entity.MainItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &entity.MainItem{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			ImageURL:    row.ImageURL,
			Price:       row.Price,
		})
	}

	return &entity.PageResult[*entity.MainItem]{
		Items:  items,
		Total:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

func toItemDomain(itemM *model.ItemModel) *entity.Item {
	return &entity.Item{
		ID:          itemM.ID,
		Name:        itemM.Name,
		Price:       itemM.Price,
		Stock:       itemM.Stock,
		SellStatus:  entity.SellStatus(itemM.SellStatus),
		Description: itemM.Description,
		Version:     itemM.Version,
		Audit:       itemM.ToAudit(),
	}
}

func toItemDomains(itemMs []model.ItemModel) []*entity.Item {
	items := make([]*entity.Item, 0, len(itemMs))
	for i := range itemMs {
		items = append(items, toItemDomain(&itemMs[i]))
	}

	return items
}

func fromItemDomain(item *entity.Item) *model.ItemModel {
	return &model.ItemModel{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Stock:       item.Stock,
		SellStatus:  string(item.SellStatus),
		Description: item.Description,
		Version:     item.Version,
		AuditModel:  model.FromAudit(item.Audit),
	}
}
