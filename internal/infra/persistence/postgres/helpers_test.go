package postgres

import (
	"context"
	"database/sql"
	"testing"

	"shop/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory database. A single connection keeps
// every statement on the same in-memory schema.
func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, Migrate(db))

	return db
}

// newMockDB opens a gorm postgres session backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedMember(t *testing.T, db *gorm.DB, email string) *entity.Member {
	t.Helper()

	member := entity.NewMember("tester", email, "hash", "Seoul")
	require.NoError(t, NewMemberRepository(db).Create(context.Background(), member))

	return member
}

func seedItem(t *testing.T, db *gorm.DB, name string, price int64, stock int) *entity.Item {
	t.Helper()

	item, err := entity.NewItem(name, price, stock, entity.SellStatusSell, name+" description")
	require.NoError(t, err)
	require.NoError(t, NewItemRepository(db).Create(context.Background(), item))

	return item
}

func seedImage(t *testing.T, db *gorm.DB, item *entity.Item, url string, representative bool) {
	t.Helper()

	image := &entity.ItemImage{
		ItemID:         item.ID,
		ObjectKey:      url,
		OriginalName:   url,
		URL:            url,
		Representative: representative,
	}
	require.NoError(t, NewItemImageRepository(db).Create(context.Background(), image))
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)

	return n
}
