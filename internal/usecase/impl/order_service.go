package impl

import (
	"context"
	"log/slog"
	"sort"
	"time"

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

type orderService struct {
	txManager  repository.TransactionManager
	memberRepo repository.MemberRepository
	orderRepo  repository.OrderRepository
	publisher  service.EventPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	MemberRepo repository.MemberRepository
	OrderRepo  repository.OrderRepository
	Publisher  service.EventPublisher
	Logger     *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:  params.TxManager,
		memberRepo: params.MemberRepo,
		orderRepo:  params.OrderRepo,
		publisher:  params.Publisher,
		now:        time.Now,
		logger:     params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (uuid.UUID, error) {
	return srv.PlaceOrders(ctx, &usecase.PlaceOrdersInput{
		Lines:       []usecase.OrderLineInput{{ItemID: input.ItemID, Quantity: input.Quantity}},
		MemberEmail: input.MemberEmail,
	})
}

// PlaceOrders places one order for all lines. Any failing line aborts the
// whole order, leaving every stock untouched.
func (srv *orderService) PlaceOrders(ctx context.Context, input *usecase.PlaceOrdersInput) (uuid.UUID, error) {
	email := entity.NormalizeEmail(input.MemberEmail)

	var order *entity.Order
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		member, err := repoFactory.MemberRepo().FindByEmail(ctx, email)
		if err != nil {
			return translateRepoError(err)
		}

		order, err = placeOrderLines(ctx, repoFactory, member, input.Lines, srv.now())

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Placing order failed", slog.String("email", email), slog.Any("error", err))

		return uuid.Nil, errors.Wrap(err, "failed to place order")
	}

	srv.log(ctx).Info("Order placed", slog.Any("orderID", order.ID), slog.Int64("total", order.TotalPrice()))
	publishOrderEvent(ctx, srv.log(ctx), srv.publisher, newOrderEvent(ctx, service.OrderEventPlaced, order, email, srv.now()))

	return order.ID, nil
}

// CancelOrder returns the ordered quantities to stock and marks the order cancelled.
func (srv *orderService) CancelOrder(ctx context.Context, input *usecase.CancelOrderInput) error {
	email := entity.NormalizeEmail(input.MemberEmail)

	var (
		order      *entity.Order
		ownerEmail string
	)
	err := srv.txManager.Execute(ctx, email, func(repoFactory repository.RepositoryFactory) error {
		memberRepo := repoFactory.MemberRepo()

		actor, err := memberRepo.FindByEmail(ctx, email)
		if err != nil {
			return translateRepoError(err)
		}

		order, err = repoFactory.OrderRepo().FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return translateRepoError(err)
		}

		ownerEmail = actor.Email
		if !order.OwnedBy(actor.ID) {
			if actor.Role != entity.RoleAdmin {
				return domainerrors.ErrForbidden.WithDetails("order belongs to another member")
			}
			owner, err := memberRepo.FindByID(ctx, order.MemberID)
			if err != nil {
				return translateRepoError(err)
			}
			ownerEmail = owner.Email
		}

		return cancelOrder(ctx, repoFactory, order)
	})
	if err != nil {
		return errors.Wrap(err, "failed to cancel order")
	}

	srv.log(ctx).Info("Order cancelled", slog.Any("orderID", order.ID), slog.String("by", email))
	publishOrderEvent(ctx, srv.log(ctx), srv.publisher, newOrderEvent(ctx, service.OrderEventCancelled, order, ownerEmail, srv.now()))

	return nil
}

// ValidateOrderOwner reports whether the member with email placed the order.
func (srv *orderService) ValidateOrderOwner(ctx context.Context, orderID uuid.UUID, email string) (bool, error) {
	member, err := srv.memberRepo.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return false, translateRepoError(err)
	}
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return false, translateRepoError(err)
	}

	return order.OwnedBy(member.ID), nil
}

// History lists the member's orders, newest first.
func (srv *orderService) History(ctx context.Context, email string, page entity.Page) (*entity.PageResult[*entity.OrderHistory], error) {
	member, err := srv.memberRepo.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, translateRepoError(err)
	}

	history, err := srv.orderRepo.ListHistory(ctx, member.ID, page)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order history")
	}

	return history, nil
}

// placeOrderLines builds and stores an order inside the caller's transaction.
func placeOrderLines(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	member *entity.Member,
	lines []usecase.OrderLineInput,
	orderedAt time.Time,
) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}

	itemIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		itemIDs = append(itemIDs, line.ItemID)
	}

	itemRepo := repoFactory.ItemRepo()
	items, lockOrder, err := lockItems(ctx, itemRepo, itemIDs)
	if err != nil {
		return nil, err
	}

	orderItems := make([]*entity.OrderItem, 0, len(lines))
	for _, line := range lines {
		oi, err := entity.NewOrderItem(items[line.ItemID], line.Quantity)
		if err != nil {
			return nil, err
		}
		orderItems = append(orderItems, oi)
	}

	placed, err := entity.NewOrder(member.ID, orderItems, orderedAt)
	if err != nil {
		return nil, err
	}
	if err := repoFactory.OrderRepo().Create(ctx, placed); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := saveItems(ctx, itemRepo, items, lockOrder); err != nil {
		return nil, err
	}

	return placed, nil
}

// cancelOrder attaches the locked items to the order lines, cancels, and saves.
func cancelOrder(ctx context.Context, repoFactory repository.RepositoryFactory, order *entity.Order) error {
	itemIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, oi := range order.Items {
		itemIDs = append(itemIDs, oi.ItemID)
	}

	itemRepo := repoFactory.ItemRepo()
	items, lockOrder, err := lockItems(ctx, itemRepo, itemIDs)
	if err != nil {
		return err
	}
	for _, oi := range order.Items {
		oi.Item = items[oi.ItemID]
	}

	if err := order.Cancel(); err != nil {
		return err
	}
	if err := repoFactory.OrderRepo().Update(ctx, order); err != nil {
		return errors.Wrap(translateRepoError(err), "failed to update order")
	}

	return saveItems(ctx, itemRepo, items, lockOrder)
}

// lockItems row-locks each distinct item once, in ascending id order so
// concurrent orders over the same items cannot deadlock.
func lockItems(ctx context.Context, itemRepo repository.ItemRepository, ids []uuid.UUID) (map[uuid.UUID]*entity.Item, []uuid.UUID, error) {
	distinct := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].String() < distinct[j].String() })

	items := make(map[uuid.UUID]*entity.Item, len(distinct))
	for _, id := range distinct {
		item, err := itemRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, nil, translateRepoError(err)
		}
		items[id] = item
	}

	return items, distinct, nil
}

func saveItems(ctx context.Context, itemRepo repository.ItemRepository, items map[uuid.UUID]*entity.Item, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := itemRepo.Update(ctx, items[id]); err != nil {
			return errors.Wrap(translateRepoError(err), "failed to update item stock")
		}
	}

	return nil
}

func newOrderEvent(ctx context.Context, eventType service.OrderEventType, order *entity.Order, email string, at time.Time) *service.OrderEvent {
	lines := make([]service.OrderEventLine, 0, len(order.Items))
	for _, oi := range order.Items {
		lines = append(lines, service.OrderEventLine{
			ItemID:     oi.ItemID.String(),
			Quantity:   oi.Quantity,
			OrderPrice: oi.OrderPrice,
		})
	}

	return &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Type:        eventType,
		OrderID:     order.ID.String(),
		MemberEmail: email,
		TotalPrice:  order.TotalPrice(),
		Lines:       lines,
		OccurredAt:  at.UTC(),
	}
}

// publishOrderEvent runs after commit. A failed publish is logged only.
func publishOrderEvent(ctx context.Context, logger *slog.Logger, publisher service.EventPublisher, event *service.OrderEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish order event",
			slog.String("type", string(event.Type)),
			slog.String("orderID", event.OrderID),
			slog.Any("error", err))
	}
}
