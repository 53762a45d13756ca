package impl

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/entity"
	domainerrors "shop/internal/domain/errors"
	"shop/internal/domain/service"
	mockSvc "shop/internal/mocks/service"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixtures struct {
	store     *testStore
	publisher *mockSvc.MockEventPublisher
	service   usecase.OrderUsecase
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	store := newTestStore(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	srv := NewOrderService(OrderServiceParams{
		TxManager:  store.txManager,
		MemberRepo: store.members,
		OrderRepo:  store.orders,
		Publisher:  publisher,
		Logger:     newDiscardLogger(),
	})

	return orderServiceFixtures{store: store, publisher: publisher, service: srv}
}

func eventOfType(eventType service.OrderEventType) any {
	return mock.MatchedBy(func(e *service.OrderEvent) bool { return e.Type == eventType })
}

func TestOrderService_PlaceAndCancel(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "buyer@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Speaker", 10000, 100)

	fx.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(service.OrderEventPlaced)).Return(nil).Once()
	fx.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(service.OrderEventCancelled)).Return(nil).Once()

	orderID, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 10, MemberEmail: member.Email})
	require.NoError(t, err)

	order, err := fx.store.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOrder, order.Status)
	assert.Equal(t, int64(100000), order.TotalPrice())
	assert.Equal(t, member.Email, order.CreatedBy)
	assert.Equal(t, 90, fx.store.stock(t, item))

	err = fx.service.CancelOrder(ctx, &usecase.CancelOrderInput{OrderID: orderID, MemberEmail: member.Email})
	require.NoError(t, err)

	order, err = fx.store.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancel, order.Status)
	assert.Equal(t, 100, fx.store.stock(t, item))

	err = fx.service.CancelOrder(ctx, &usecase.CancelOrderInput{OrderID: orderID, MemberEmail: member.Email})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotCancellable)
	assert.Equal(t, 100, fx.store.stock(t, item))
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "short@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Rare Vinyl", 50000, 2)

	_, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 3, MemberEmail: member.Email})

	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
	assert.Equal(t, 2, fx.store.stock(t, item))
	fx.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrders_RollsBackEarlierLines(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "multi@shop.test", entity.RoleUser)
	plenty := fx.store.seedItem(t, "Rice", 3000, 50)
	scarce := fx.store.seedItem(t, "Truffle", 90000, 1)

	_, err := fx.service.PlaceOrders(ctx, &usecase.PlaceOrdersInput{
		Lines: []usecase.OrderLineInput{
			{ItemID: plenty.ID, Quantity: 5},
			{ItemID: scarce.ID, Quantity: 2},
		},
		MemberEmail: member.Email,
	})

	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
	assert.Equal(t, 50, fx.store.stock(t, plenty))
	assert.Equal(t, 1, fx.store.stock(t, scarce))
}

func TestOrderService_PlaceOrders_SameItemTwice(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "twice@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Egg", 500, 10)

	fx.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(service.OrderEventPlaced)).Return(nil).Once()

	orderID, err := fx.service.PlaceOrders(ctx, &usecase.PlaceOrdersInput{
		Lines: []usecase.OrderLineInput{
			{ItemID: item.ID, Quantity: 4},
			{ItemID: item.ID, Quantity: 3},
		},
		MemberEmail: member.Email,
	})
	require.NoError(t, err)

	order, err := fx.store.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 3, fx.store.stock(t, item))
}

func TestOrderService_PlaceOrder_NotFound(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "lost@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Map", 7000, 3)

	_, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: uuid.New(), Quantity: 1, MemberEmail: member.Email})
	assert.ErrorIs(t, err, domainerrors.ErrItemNotFound)

	_, err = fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 1, MemberEmail: "ghost@shop.test"})
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)

	_, err = fx.service.PlaceOrders(ctx, &usecase.PlaceOrdersInput{MemberEmail: member.Email})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyOrder)
}

func TestOrderService_CancelOrder_Ownership(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	owner := fx.store.seedMember(t, "owner@shop.test", entity.RoleUser)
	stranger := fx.store.seedMember(t, "stranger@shop.test", entity.RoleUser)
	admin := fx.store.seedMember(t, "admin@shop.test", entity.RoleAdmin)
	item := fx.store.seedItem(t, "Chair", 45000, 4)

	fx.publisher.On("PublishOrderEvent", mock.Anything, eventOfType(service.OrderEventPlaced)).Return(nil).Once()
	fx.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e *service.OrderEvent) bool {
		return e.Type == service.OrderEventCancelled && e.MemberEmail == owner.Email
	})).Return(nil).Once()

	orderID, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 2, MemberEmail: owner.Email})
	require.NoError(t, err)

	ok, err := fx.service.ValidateOrderOwner(ctx, orderID, stranger.Email)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = fx.service.ValidateOrderOwner(ctx, orderID, owner.Email)
	require.NoError(t, err)
	assert.True(t, ok)

	err = fx.service.CancelOrder(ctx, &usecase.CancelOrderInput{OrderID: orderID, MemberEmail: stranger.Email})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Equal(t, 2, fx.store.stock(t, item))

	err = fx.service.CancelOrder(ctx, &usecase.CancelOrderInput{OrderID: orderID, MemberEmail: admin.Email})
	require.NoError(t, err)
	assert.Equal(t, 4, fx.store.stock(t, item))

	order, err := fx.store.orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, order.ModifiedBy)

	err = fx.service.CancelOrder(ctx, &usecase.CancelOrderInput{OrderID: uuid.New(), MemberEmail: owner.Email})
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_PublishFailureIsNotFatal(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "quiet@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Tape", 1200, 9)

	fx.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	orderID, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 1, MemberEmail: member.Email})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, orderID)
	assert.Equal(t, 8, fx.store.stock(t, item))
}

func TestOrderService_History(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	member := fx.store.seedMember(t, "history@shop.test", entity.RoleUser)
	item := fx.store.seedItem(t, "Soap", 2500, 20)

	fx.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)

	clock := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	fx.service.(*orderService).now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 1, MemberEmail: member.Email})
	require.NoError(t, err)
	second, err := fx.service.PlaceOrder(ctx, &usecase.PlaceOrderInput{ItemID: item.ID, Quantity: 2, MemberEmail: member.Email})
	require.NoError(t, err)

	history, err := fx.service.History(ctx, member.Email, entity.Page{Number: 0, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(2), history.Total)
	require.Len(t, history.Items, 2)
	assert.Equal(t, second, history.Items[0].OrderID)
	assert.Equal(t, int64(5000), history.Items[0].TotalPrice)
	assert.Equal(t, first, history.Items[1].OrderID)
	assert.Equal(t, "Soap", history.Items[1].Lines[0].ItemName)
}
