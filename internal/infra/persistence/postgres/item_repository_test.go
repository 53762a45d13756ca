package postgres

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/entity"
	"shop/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_UpdateVersionConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := seedItem(t, db, "Kettle", 25000, 10)
	assert.Equal(t, int64(1), item.Version)

	first, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)

	require.NoError(t, first.RemoveStock(3))
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	require.NoError(t, second.RemoveStock(4))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Stock)
	assert.Equal(t, int64(2), stored.Version)
}

func TestItemRepository_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	err := repo.Update(context.Background(), &entity.Item{ID: uuid.New(), Version: 1, SellStatus: entity.SellStatusSell})
	assert.ErrorIs(t, err, repository.ErrItemNotFound)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}

func TestItemRepository_SoldOutAtZeroStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	item := seedItem(t, db, "Last One", 1000, 1)
	require.NoError(t, item.RemoveStock(1))
	require.NoError(t, repo.Update(ctx, item))

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
	assert.Equal(t, entity.SellStatusSoldOut, stored.SellStatus)
}

func TestItemRepository_Finders(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	cheap := seedItem(t, db, "Pencil", 500, 100)
	mid := seedItem(t, db, "Notebook", 3000, 50)
	expensive := seedItem(t, db, "Fountain Pen", 90000, 5)

	byName, err := repo.FindByName(ctx, "Notebook")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, mid.ID, byName[0].ID)

	either, err := repo.FindByNameOrDescription(ctx, "Pencil", "Fountain Pen description")
	require.NoError(t, err)
	assert.Len(t, either, 2)

	under, err := repo.FindByPriceLessThan(ctx, 5000)
	require.NoError(t, err)
	require.Len(t, under, 2)
	assert.Equal(t, cheap.ID, under[0].ID)
	assert.Equal(t, mid.ID, under[1].ID)

	byDesc, err := repo.FindByDescription(ctx, "description")
	require.NoError(t, err)
	require.Len(t, byDesc, 3)
	assert.Equal(t, expensive.ID, byDesc[0].ID)
	assert.Equal(t, cheap.ID, byDesc[2].ID)
}

func TestItemRepository_SearchAdmin(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := &itemRepository{db: db, now: time.Now}

	seedItem(t, db, "Red Shirt", 20000, 10)
	seedItem(t, db, "Blue Shirt", 22000, 0)
	seedItem(t, db, "Green Hat", 15000, 4)

	minPrice := int64(16000)
	maxPrice := int64(21000)

	tests := []struct {
		name   string
		search entity.ItemSearch
		want   []string
	}{
		{
			name:   "no filter",
			search: entity.ItemSearch{},
			want:   []string{"Green Hat", "Blue Shirt", "Red Shirt"},
		},
		{
			name:   "name query",
			search: entity.ItemSearch{SearchBy: entity.SearchByName, Query: "Shirt"},
			want:   []string{"Blue Shirt", "Red Shirt"},
		},
		{
			name:   "sell status",
			search: entity.ItemSearch{SellStatus: entity.SellStatusSoldOut},
			want:   []string{"Blue Shirt"},
		},
		{
			name:   "created by",
			search: entity.ItemSearch{SearchBy: entity.SearchByCreatedBy, Query: entity.SystemActor},
			want:   []string{"Green Hat", "Blue Shirt", "Red Shirt"},
		},
		{
			name:   "price range",
			search: entity.ItemSearch{MinPrice: &minPrice, MaxPrice: &maxPrice},
			want:   []string{"Red Shirt"},
		},
		{
			name:   "last day",
			search: entity.ItemSearch{DateRange: entity.DateRangeDay, Query: "Hat"},
			want:   []string{"Green Hat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.SearchAdmin(ctx, tt.search, entity.Page{Number: 0, Size: 10})
			require.NoError(t, err)

			names := make([]string, 0, len(page.Items))
			for _, item := range page.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}

	t.Run("out of range date", func(t *testing.T) {
		future := &itemRepository{db: db, now: func() time.Time { return time.Now().AddDate(1, 0, 0) }}
		page, err := future.SearchAdmin(ctx, entity.ItemSearch{DateRange: entity.DateRangeWeek}, entity.Page{Size: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := repo.SearchAdmin(ctx, entity.ItemSearch{}, entity.Page{Number: 1, Size: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Red Shirt", page.Items[0].Name)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages())
	})
}

func TestItemRepository_SearchMain(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	withImage := seedItem(t, db, "Camera", 450000, 2)
	seedImage(t, db, withImage, "https://img.shop.test/camera.jpg", true)
	seedImage(t, db, withImage, "https://img.shop.test/camera-back.jpg", false)
	seedItem(t, db, "Camera Strap", 15000, 20)

	page, err := repo.SearchMain(ctx, "Camera", entity.Page{Size: 6})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, withImage.ID, page.Items[0].ID)
	assert.Equal(t, "https://img.shop.test/camera.jpg", page.Items[0].ImageURL)
	assert.Equal(t, int64(450000), page.Items[0].Price)
}

func TestItemImageRepository_FindByItemID(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemImageRepository(db)
	ctx := context.Background()

	item := seedItem(t, db, "Bag", 80000, 3)
	seedImage(t, db, item, "side.jpg", false)
	seedImage(t, db, item, "front.jpg", true)

	images, err := repo.FindByItemID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.True(t, images[0].Representative)
	assert.Equal(t, "front.jpg", images[0].URL)

	urls, err := repo.RepresentativeURLs(ctx, []uuid.UUID{item.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{item.ID: "front.jpg"}, urls)
}

func TestItemRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewItemRepository(gormDB)
	itemID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "sell_status", "description", "version"}).
		AddRow(itemID.String(), "Desk", int64(120000), 4, "SELL", "oak desk", int64(3))
	mock.ExpectQuery(`SELECT \* FROM "items" WHERE "items"."id" = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(itemID, 1).
		WillReturnRows(rows)

	item, err := repo.FindByIDForUpdate(context.Background(), itemID)

	require.NoError(t, err)
	assert.Equal(t, "Desk", item.Name)
	assert.Equal(t, int64(3), item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_UpdateChecksVersion(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewItemRepository(gormDB)
	item := &entity.Item{ID: uuid.New(), Name: "Desk", Price: 120000, Stock: 3, SellStatus: entity.SellStatusSell, Version: 3}

	mock.ExpectExec(`UPDATE "items" SET .* WHERE "items"."id" = \$\d+ AND "items"."version" = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "items" WHERE "items"."id" = \$1`).
		WithArgs(item.ID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Update(context.Background(), item)

	assert.ErrorIs(t, err, repository.ErrVersionConflict)
	assert.Equal(t, int64(3), item.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
