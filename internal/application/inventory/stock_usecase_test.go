package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/stock"
	"github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/memory"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

const (
	adminA = "00000000-0000-0000-0000-00000000000a"
	adminB = "00000000-0000-0000-0000-00000000000b"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	ctx    context.Context
	store  *memory.Store
	stock  *inventory.StockUseCase
	outs   *inventory.StockOutUseCase
	ledger *inventory.LedgerUseCase
	actor  inventory.Actor
}

func newEnv() *env {
	s := memory.NewStore()
	return &env{
		ctx:    context.Background(),
		store:  s,
		stock:  inventory.NewStockUseCase(s, memory.NewStockItemRepository(s), 3, logger.Nop()),
		outs:   inventory.NewStockOutUseCase(s, memory.NewStockOutRepository(s), 3, logger.Nop()),
		ledger: inventory.NewLedgerUseCase(memory.NewStockHistoryRepository(s)),
		actor:  inventory.Actor{AdminID: adminA, EmployeeID: "emp-1"},
	}
}

func (e *env) receive(t *testing.T, sku, qty, cost string) *dto.StockItemResponse {
	t.Helper()
	item, err := e.stock.Receive(e.ctx, e.actor, dto.ReceiveStockRequest{
		SKU: sku, ItemName: "Item " + sku, Quantity: d(qty), UnitCost: d(cost), ReorderLevel: d("2"),
	})
	require.NoError(t, err)
	return item
}

func assertBalanced(t *testing.T, entries []dto.StockHistoryResponse) {
	t.Helper()
	for _, e := range entries {
		assert.True(t, stock.Balanced(e.MovementType, e.QtyBefore, e.QtyChange, e.QtyAfter),
			"movimiento %s descuadrado: %s %s %s", e.MovementType, e.QtyBefore, e.QtyChange, e.QtyAfter)
	}
}

func TestReceive_CreaStockYMovimiento(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "A-1", "10", "2.5")

	assert.True(t, item.TotalValue.Equal(d("25")))
	assert.Equal(t, "unit", item.UnitOfMeasure)

	entries, err := e.ledger.ListByStock(e.ctx, adminA, item.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementTypeIN, entries[0].MovementType)
	assert.Equal(t, entity.SourceTypeReceipt, entries[0].SourceType)
	assert.True(t, entries[0].QtyBefore.IsZero())
	assert.Equal(t, "emp-1", entries[0].ActorEmployeeID)
	assertBalanced(t, entries)
}

func TestReceive_SKUDuplicado(t *testing.T) {
	e := newEnv()
	e.receive(t, "A-1", "1", "1")

	_, err := e.stock.Receive(e.ctx, e.actor, dto.ReceiveStockRequest{SKU: "A-1", ItemName: "otro", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo SKU en otro tenant es válido
	_, err = e.stock.Receive(e.ctx, inventory.Actor{AdminID: adminB}, dto.ReceiveStockRequest{SKU: "A-1", ItemName: "otro", Quantity: d("1")})
	assert.NoError(t, err)
}

func TestReceive_Validaciones(t *testing.T) {
	e := newEnv()
	_, err := e.stock.Receive(e.ctx, e.actor, dto.ReceiveStockRequest{ItemName: "sin sku"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.stock.Receive(e.ctx, e.actor, dto.ReceiveStockRequest{SKU: "X", ItemName: "neg", Quantity: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.stock.Receive(e.ctx, inventory.Actor{}, dto.ReceiveStockRequest{SKU: "X", ItemName: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_DeltaConSigno(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "A-1", "10", "2")

	got, err := e.stock.Adjust(e.ctx, e.actor, item.ID, dto.AdjustStockRequest{Delta: d("-3"), Note: "merma"})
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(d("7")))
	assert.True(t, got.TotalValue.Equal(d("14")))

	entries, err := e.ledger.ListByType(e.ctx, adminA, entity.MovementTypeADJUSTMENT, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "merma", entries[0].Note)
	assert.True(t, entries[0].QtyChange.Equal(d("-3")))
	assertBalanced(t, entries)
}

func TestAdjust_SaldoNegativoRechazado(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "A-1", "2", "1")

	_, err := e.stock.Adjust(e.ctx, e.actor, item.ID, dto.AdjustStockRequest{Delta: d("-3")})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, err := e.stock.Get(e.ctx, adminA, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(d("2")))

	entries, err := e.ledger.ListByStock(e.ctx, adminA, item.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "el ajuste fallido no deja movimiento")
}

func TestAdjust_OtroTenantNoEncontrado(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "A-1", "2", "1")

	_, err := e.stock.Adjust(e.ctx, inventory.Actor{AdminID: adminB}, item.ID, dto.AdjustStockRequest{Delta: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.stock.Get(e.ctx, adminB, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUnitCost_RevaluaSaldo(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "A-1", "4", "2.5")

	got, err := e.stock.UpdateUnitCost(e.ctx, e.actor, item.ID, dto.UpdateUnitCostRequest{UnitCost: d("3")})
	require.NoError(t, err)
	assert.True(t, got.TotalValue.Equal(d("12")))
	assert.True(t, got.Quantity.Equal(d("4")))

	entries, err := e.ledger.ListByStock(e.ctx, adminA, item.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.SourceTypeCost, entries[0].SourceType, "más reciente primero")
	assert.True(t, entries[0].QtyChange.IsZero())
}

func TestListLowStockYPorSKU(t *testing.T) {
	e := newEnv()
	e.receive(t, "A-1", "10", "1")
	low := e.receive(t, "B-1", "2", "1")

	list, err := e.stock.ListLowStock(e.ctx, adminA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low.ID, list[0].ID)

	got, err := e.stock.GetBySKU(e.ctx, adminA, "A-1")
	require.NoError(t, err)
	assert.Equal(t, "A-1", got.SKU)

	_, err = e.stock.GetBySKU(e.ctx, adminA, "Z-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	page, err := e.stock.List(e.ctx, adminA, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Page.Limit)
}

// fitsScale indica si el valor cabe en NUMERIC(18,4) sin que la base lo redondee.
func fitsScale(v decimal.Decimal) bool { return v.Equal(v.Round(stock.Scale)) }

func TestReceive_FraccionesRedondeadasYValorTotalExacto(t *testing.T) {
	e := newEnv()
	created, err := e.stock.Receive(e.ctx, e.actor, dto.ReceiveStockRequest{
		SKU: "F-1", ItemName: "Fraccion", Quantity: d("1.5"), UnitCost: d("0.33333"),
	})
	require.NoError(t, err)

	_, err = e.stock.Adjust(e.ctx, e.actor, created.ID, dto.AdjustStockRequest{Delta: d("0.12345")})
	require.NoError(t, err)
	_, err = e.stock.UpdateUnitCost(e.ctx, e.actor, created.ID, dto.UpdateUnitCostRequest{UnitCost: d("0.77777")})
	require.NoError(t, err)
	_, err = e.outs.Record(e.ctx, e.actor, dto.RecordStockOutRequest{StockID: created.ID, Quantity: d("0.33335"), SoldPrice: d("1.00005")})
	require.NoError(t, err)

	row, err := memory.NewStockItemRepository(e.store).GetByID(e.ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1.2901", row.Quantity.String(), "1.5 + 0.1235 - 0.3334")
	assert.Equal(t, "0.7778", row.UnitCost.String())
	assert.True(t, fitsScale(row.Quantity))
	assert.True(t, fitsScale(row.UnitCost))
	assert.True(t, row.TotalValue.Equal(row.Quantity.Mul(row.UnitCost)))
	assert.True(t, row.TotalValue.Equal(row.TotalValue.Round(2*stock.Scale)))

	got, err := e.stock.Get(e.ctx, adminA, created.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalValue.Equal(row.TotalValue), "la respuesta coincide con la fila guardada")

	hist, err := e.ledger.ListByStock(e.ctx, adminA, created.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist, 4)
	assertBalanced(t, hist)
	for _, h := range hist {
		assert.True(t, fitsScale(h.QtyChange) && fitsScale(h.QtyBefore) && fitsScale(h.QtyAfter) && fitsScale(h.UnitPrice),
			"%s %s", h.MovementType, h.QtyChange)
	}
}

func TestAdjust_DeltaQueRedondeaACero(t *testing.T) {
	e := newEnv()
	item := e.receive(t, "F-2", "1", "1")

	_, err := e.stock.Adjust(e.ctx, e.actor, item.ID, dto.AdjustStockRequest{Delta: d("0.00004")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
