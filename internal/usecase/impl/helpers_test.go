package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"shop/internal/domain/entity"
	"shop/internal/domain/repository"
	"shop/internal/infra/persistence/postgres"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testStore wires the real repositories to a migrated in-memory database.
type testStore struct {
	db        *gorm.DB
	txManager repository.TransactionManager
	members   repository.MemberRepository
	items     repository.ItemRepository
	images    repository.ItemImageRepository
	carts     repository.CartRepository
	cartItems repository.CartItemRepository
	orders    repository.OrderRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(db))

	return &testStore{
		db:        db,
		txManager: postgres.NewTransactionManager(db),
		members:   postgres.NewMemberRepository(db),
		items:     postgres.NewItemRepository(db),
		images:    postgres.NewItemImageRepository(db),
		carts:     postgres.NewCartRepository(db),
		cartItems: postgres.NewCartItemRepository(db),
		orders:    postgres.NewOrderRepository(db),
	}
}

func (s *testStore) seedMember(t *testing.T, email string, role entity.Role) *entity.Member {
	t.Helper()

	member := entity.NewMember("member", email, "$2a$04$hash", "Seoul")
	member.Role = role
	require.NoError(t, s.members.Create(context.Background(), member))

	return member
}

func (s *testStore) seedItem(t *testing.T, name string, price int64, stock int) *entity.Item {
	t.Helper()

	item, err := entity.NewItem(name, price, stock, entity.SellStatusSell, name)
	require.NoError(t, err)
	require.NoError(t, s.items.Create(context.Background(), item))

	return item
}

func (s *testStore) stock(t *testing.T, item *entity.Item) int {
	t.Helper()

	stored, err := s.items.FindByID(context.Background(), item.ID)
	require.NoError(t, err)

	return stored.Stock
}

// failingTxManager never opens a transaction.
type failingTxManager struct {
	err error
}

func (f failingTxManager) Execute(context.Context, string, func(repository.RepositoryFactory) error) error {
	return f.err
}
