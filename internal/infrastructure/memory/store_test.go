package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/memory"
)

func newItem(id string) *entity.StockItem {
	return &entity.StockItem{
		ID: id, AdminID: "a", SKU: "SKU-" + id, ItemName: id,
		Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1),
	}
}

func TestRun_RevierteEnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Repos().Stock.Create(ctx, newItem("1")))

	boom := errors.New("boom")
	err := s.Run(ctx, func(r inventory.Repos) error {
		item, err := r.Stock.GetForUpdate(ctx, "1")
		require.NoError(t, err)
		item.Quantity = decimal.NewFromInt(99)
		require.NoError(t, r.Stock.Update(ctx, item))
		require.NoError(t, r.Stock.Create(ctx, newItem("2")))
		require.NoError(t, r.History.Create(ctx, &entity.StockHistory{ID: "h", AdminID: "a", StockID: "1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, err := s.Repos().Stock.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, int64(1), item.Version)

	missing, err := s.Repos().Stock.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	hist, err := s.Repos().History.ListByStock(ctx, "a", "1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestUpdate_VersionCAS(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, newItem("1")))

	a, _ := repo.GetByID(ctx, "1")
	b, _ := repo.GetByID(ctx, "1")

	a.Quantity = decimal.NewFromInt(6)
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.Quantity = decimal.NewFromInt(7)
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrConflict, "la copia con versión vieja pierde")

	got, _ := repo.GetByID(ctx, "1")
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(6)))
}

func TestGet_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStockItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(ctx, newItem("1")))

	got, _ := repo.GetByID(ctx, "1")
	got.Quantity = decimal.NewFromInt(1000)

	again, _ := repo.GetByID(ctx, "1")
	assert.True(t, again.Quantity.Equal(decimal.NewFromInt(5)), "mutar el resultado no altera el almacén")
}

func TestSalesReturn_CargaAnsiosa(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	r := s.Repos()
	require.NoError(t, r.Stock.Create(ctx, newItem("1")))
	now := time.Now()
	require.NoError(t, r.StockOut.Create(ctx, &entity.StockOut{ID: "so", AdminID: "a", StockID: "1", Quantity: decimal.NewFromInt(2), CreatedAt: now}))
	require.NoError(t, r.Returns.Create(ctx, &entity.SalesReturn{ID: "sr", AdminID: "a", CreditNoteID: "CR-NOTE-1", CreatedAt: now}))
	require.NoError(t, r.Returns.CreateItem(ctx, &entity.SalesReturnItem{ID: "i", SalesReturnID: "sr", StockOutID: "so", Quantity: decimal.NewFromInt(1)}))

	assert.ErrorIs(t, r.Returns.CreateItem(ctx, &entity.SalesReturnItem{ID: "x", SalesReturnID: "sr", StockOutID: "nope"}), domain.ErrNotFound)
	assert.ErrorIs(t, r.Returns.Create(ctx, &entity.SalesReturn{ID: "sr2", AdminID: "a", CreditNoteID: "CR-NOTE-1"}), domain.ErrDuplicate)

	sr, err := r.Returns.GetByID(ctx, "sr")
	require.NoError(t, err)
	require.Len(t, sr.Items, 1)
	require.NotNil(t, sr.Items[0].StockOut)
	require.NotNil(t, sr.Items[0].StockOut.Stock)
	assert.Equal(t, "SKU-1", sr.Items[0].StockOut.Stock.SKU)

	none, err := r.Returns.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, none)
}
