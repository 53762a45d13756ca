package postgres

import (
	"context"

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

// orderRepository persists the order aggregate. Order items are written only from here.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return repo.load(ctx, repo.db.WithContext(ctx), id)
}

func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	db := repo.db.WithContext(ctx).Clauses(dbresolver.Write, clause.Locking{Strength: "UPDATE"})

	return repo.load(ctx, db, id)
}

func (repo *orderRepository) load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := db.Where("id = ?", id).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "find order")
	}

	if err := repo.db.WithContext(ctx).Where("order_id = ?", id).Order("created_at ASC").Find(&orderM.Items).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "find order items")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	id, err := ensureID(order.ID)
	if err != nil {
		return err
	}
	orderM := &model.OrderModel{
		ID:        id,
		MemberID:  order.MemberID,
		OrderDate: order.OrderDate,
		Status:    string(order.Status),
	}

	if err := repo.db.WithContext(ctx).Omit("Items").Create(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "create order")
	}
	order.ID = orderM.ID
	order.Audit = orderM.ToAudit()

	for _, oi := range order.Items {
		if err := repo.createItem(ctx, order.ID, oi); err != nil {
			return err
		}
	}

	return nil
}

// Update writes the order row and reconciles its items: new lines are
// inserted, present lines updated, and stored lines missing from the
// aggregate deleted.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":     string(order.Status),
			"order_date": order.OrderDate,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	keep := make([]uuid.UUID, 0, len(order.Items))
	for _, oi := range order.Items {
		if oi.ID == uuid.Nil {
			if err := repo.createItem(ctx, order.ID, oi); err != nil {
				return err
			}
		} else {
			err := repo.db.WithContext(ctx).
				Model(&model.OrderItemModel{}).
				Where("id = ? AND order_id = ?", oi.ID, order.ID).
				Updates(map[string]any{
					"quantity":    oi.Quantity,
					"order_price": oi.OrderPrice,
				}).Error
			if err != nil {
				return domainerrors.NewDatabaseExecuteError(err, "update order item")
			}
		}
		keep = append(keep, oi.ID)
	}

	orphans := repo.db.WithContext(ctx).Where("order_id = ?", order.ID)
	if len(keep) > 0 {
		orphans = orphans.Where("id NOT IN ?", keep)
	}
	if err := orphans.Delete(&model.OrderItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "delete orphaned order items")
	}

	return nil
}

func (repo *orderRepository) createItem(ctx context.Context, orderID uuid.UUID, oi *entity.OrderItem) error {
	id, err := ensureID(oi.ID)
	if err != nil {
		return err
	}
	itemM := &model.OrderItemModel{
		ID:         id,
		OrderID:    orderID,
		ItemID:     oi.ItemID,
		Quantity:   oi.Quantity,
		OrderPrice: oi.OrderPrice,
	}
	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "create order item")
	}
	oi.ID = itemM.ID
	oi.OrderID = orderID
	oi.Audit = itemM.ToAudit()

	return nil
}

type orderHistoryLineRow struct {
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	ItemName   string
	Quantity   int
	OrderPrice int64
	ImageURL   string
}

func (repo *orderRepository) ListHistory(ctx context.Context, memberID uuid.UUID, page entity.Page) (*entity.PageResult[*entity.OrderHistory], error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "count orders")
	}

	var orderMs []model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("order_date DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&orderMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "list orders")
	}

	histories := make([]*entity.OrderHistory, 0, len(orderMs))
	byID := make(map[uuid.UUID]*entity.OrderHistory, len(orderMs))
	orderIDs := make([]uuid.UUID, 0, len(orderMs))
	for _, orderM := range orderMs {
		history := &entity.OrderHistory{
			OrderID:   orderM.ID,
			OrderDate: orderM.OrderDate,
			Status:    entity.OrderStatus(orderM.Status),
		}
		histories = append(histories, history)
		byID[orderM.ID] = history
		orderIDs = append(orderIDs, orderM.ID)
	}

	if len(orderIDs) > 0 {
		var rows []orderHistoryLineRow
		err := repo.db.WithContext(ctx).
			Table("order_items").
			Select("order_items.order_id, order_items.item_id, items.name AS item_name, order_items.quantity, "+
				"order_items.order_price, COALESCE(item_images.url, '') AS image_url").
			Joins("JOIN items ON items.id = order_items.item_id").
			Joins("LEFT JOIN item_images ON item_images.item_id = items.id AND item_images.representative = ?", true).
			Where("order_items.order_id IN ?", orderIDs).
			Order("order_items.created_at ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "list order history lines")
		}

		for _, row := range rows {
			history := byID[row.OrderID]
			history.Lines = append(history.Lines, entity.OrderHistoryLine{
				ItemID:     row.ItemID,
				ItemName:   row.ItemName,
				Quantity:   row.Quantity,
				OrderPrice: row.OrderPrice,
				ImageURL:   row.ImageURL,
			})
			history.TotalPrice += row.OrderPrice * int64(row.Quantity)
		}
	}

	return &entity.PageResult[*entity.OrderHistory]{
		Items:  histories,
		Total:  total,
		Number: page.Number,
		Size:   page.Size,
	}, nil
}

func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	items := make([]*entity.OrderItem, 0, len(orderM.Items))
	for _, itemM := range orderM.Items {
		items = append(items, &entity.OrderItem{
			ID:         itemM.ID,
			OrderID:    itemM.OrderID,
			ItemID:     itemM.ItemID,
			Quantity:   itemM.Quantity,
			OrderPrice: itemM.OrderPrice,
			Audit:      itemM.ToAudit(),
		})
	}

	return &entity.Order{
		ID:        orderM.ID,
		MemberID:  orderM.MemberID,
		OrderDate: orderM.OrderDate,
		Status:    entity.OrderStatus(orderM.Status),
		Items:     items,
		Audit:     orderM.ToAudit(),
	}
}
