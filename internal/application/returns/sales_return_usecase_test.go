package returns_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/returns"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
	"github.com/Mihigojordan/Abysphere-sub003/internal/infrastructure/memory"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

const (
	adminA = "00000000-0000-0000-0000-00000000000a"
	adminB = "00000000-0000-0000-0000-00000000000b"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture: una fila de stock con 10 unidades a costo 2 y una salida de 4 (saldo 6).
type fixture struct {
	ctx      context.Context
	store    *memory.Store
	stock    *inventory.StockUseCase
	outs     *inventory.StockOutUseCase
	ledger   *inventory.LedgerUseCase
	uc       *returns.SalesReturnUseCase
	stockID  string
	outID    string
	actor    inventory.Actor
	sequence int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTx(t, nil)
}

// newFixtureWithTx permite envolver los repos de la tx de devoluciones.
func newFixtureWithTx(t *testing.T, wrap func(inventory.Repos) inventory.Repos) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: memory.NewStore(), actor: inventory.Actor{AdminID: adminA}}
	log := logger.Nop()
	f.stock = inventory.NewStockUseCase(f.store, memory.NewStockItemRepository(f.store), 3, log)
	f.outs = inventory.NewStockOutUseCase(f.store, memory.NewStockOutRepository(f.store), 3, log)
	f.ledger = inventory.NewLedgerUseCase(memory.NewStockHistoryRepository(f.store))

	var tx inventory.TxRunner = f.store
	if wrap != nil {
		tx = wrappedTx{inner: f.store, wrap: wrap}
	}
	gen := func(prefixes ...string) string {
		f.sequence++
		return fmt.Sprintf("CR-NOTE-%06d", f.sequence)
	}
	f.uc = returns.NewSalesReturnUseCase(tx, memory.NewSalesReturnRepository(f.store), gen,
		returns.Config{MaxConflictRetries: 3}, log)

	item, err := f.stock.Receive(f.ctx, f.actor, dto.ReceiveStockRequest{
		SKU: "SKU-1", ItemName: "Tornillo", Quantity: d("10"), UnitCost: d("2"),
	})
	require.NoError(t, err)
	f.stockID = item.ID

	so, err := f.outs.Record(f.ctx, f.actor, dto.RecordStockOutRequest{
		StockID: item.ID, TransactionID: "TX-1", Quantity: d("4"), SoldPrice: d("5"),
	})
	require.NoError(t, err)
	f.outID = so.ID
	return f
}

func (f *fixture) create(t *testing.T, lines ...returns.LineInput) *returns.Outcome {
	t.Helper()
	out, err := f.uc.Create(f.ctx, returns.CreateInput{
		Actor: f.actor, TransactionID: "TX-1", Reason: "cliente", Items: lines,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) onHand(t *testing.T) decimal.Decimal {
	t.Helper()
	item, err := f.stock.Get(f.ctx, adminA, f.stockID)
	require.NoError(t, err)
	return item.Quantity
}

func (f *fixture) outQty(t *testing.T) decimal.Decimal {
	t.Helper()
	so, err := f.outs.Get(f.ctx, adminA, f.outID)
	require.NoError(t, err)
	return so.Quantity
}

type wrappedTx struct {
	inner inventory.TxRunner
	wrap  func(inventory.Repos) inventory.Repos
}

func (w wrappedTx) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return w.inner.Run(ctx, func(r inventory.Repos) error { return fn(w.wrap(r)) })
}

// flakyStock devuelve ErrConflict en las primeras fails llamadas a Update.
type flakyStock struct {
	repository.StockItemRepository
	fails *int
}

func (s flakyStock) Update(ctx context.Context, item *entity.StockItem) error {
	if *s.fails > 0 {
		*s.fails--
		return domain.ErrConflict
	}
	return s.StockItemRepository.Update(ctx, item)
}

// missingStock simula un stock-out cuyo stock de origen ya no existe.
type missingStock struct {
	repository.StockItemRepository
}

func (missingStock) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return nil, nil
}

// brokenOuts falla al decrementar la salida, después de haber restituido el stock.
type brokenOuts struct {
	repository.StockOutRepository
}

func (brokenOuts) UpdateQuantity(ctx context.Context, id string, q decimal.Decimal) error {
	return errors.New("conexión perdida")
}

func TestCreate_ConservaCantidades(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("3")})

	require.Len(t, out.Applied(), 1)
	assert.Empty(t, out.Rejected())
	assert.True(t, f.onHand(t).Equal(d("9")), "6 + 3")
	assert.True(t, f.outQty(t).Equal(d("1")), "4 - 3")

	item, err := f.stock.Get(f.ctx, adminA, f.stockID)
	require.NoError(t, err)
	assert.True(t, item.TotalValue.Equal(d("18")), "valor total revaluado a 9 x 2")
}

func TestCreate_RegistraMovimientoEnLedger(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("3")})
	cn := out.SalesReturn.CreditNoteID
	assert.Equal(t, "CR-NOTE-000001", cn)

	entries, err := f.ledger.ListBySource(f.ctx, adminA, cn, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, entity.MovementTypeIN, e.MovementType)
	assert.Equal(t, entity.SourceTypeReceipt, e.SourceType)
	assert.Equal(t, f.stockID, e.StockID)
	assert.True(t, e.QtyBefore.Equal(d("6")))
	assert.True(t, e.QtyChange.Equal(d("3")))
	assert.True(t, e.QtyAfter.Equal(d("9")))
	assert.Contains(t, e.Note, cn)
	assert.Contains(t, e.Note, "TX-1")
}

func TestCreate_NoEsIdempotente(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("2")})
	second := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("2")})

	require.Len(t, first.Applied(), 1)
	require.Len(t, second.Applied(), 1)
	assert.NotEqual(t, first.SalesReturn.CreditNoteID, second.SalesReturn.CreditNoteID)
	assert.True(t, f.onHand(t).Equal(d("10")))
	assert.True(t, f.outQty(t).IsZero())

	third := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	require.Len(t, third.Rejected(), 1)
	assert.Equal(t, returns.ReasonQuantityExceeded, third.Items[0].Reason)
}

func TestCreate_CantidadIgualAlaSalidaSeAplica(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("4")})

	require.Len(t, out.Applied(), 1)
	assert.True(t, f.outQty(t).IsZero())
	assert.True(t, f.onHand(t).Equal(d("10")))
}

func TestCreate_CantidadMayorSeRechazaSinCambios(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("5")})

	require.Len(t, out.Rejected(), 1)
	assert.Equal(t, returns.ReasonQuantityExceeded, out.Items[0].Reason)
	assert.True(t, f.onHand(t).Equal(d("6")))
	assert.True(t, f.outQty(t).Equal(d("4")))

	entries, err := f.ledger.ListBySource(f.ctx, adminA, out.SalesReturn.CreditNoteID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreate_LoteMixto(t *testing.T) {
	f := newFixture(t)

	out := f.create(t,
		returns.LineInput{StockOutID: f.outID, Quantity: d("1")},
		returns.LineInput{StockOutID: "no-existe", Quantity: d("1")},
	)

	resp := out.Response()
	require.Len(t, resp.Success, 1)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, f.outID, resp.Success[0].StockOutID)
	assert.Equal(t, "no-existe", resp.Errors[0].StockOutID)
	assert.Equal(t, string(returns.ReasonInvalidStockOut), resp.Errors[0].Code)
	assert.Equal(t, "Invalid stockoutId", resp.Errors[0].Error)
	assert.Equal(t, "TX-1", resp.TransactionID)
	assert.Len(t, resp.SalesReturn.Items, 1)
	assert.True(t, f.onHand(t).Equal(d("7")))
}

func TestCreate_SinItemsAplicadosConservaCabecera(t *testing.T) {
	f := newFixture(t)

	out := f.create(t, returns.LineInput{StockOutID: "no-existe", Quantity: d("1")})
	resp := out.Response()

	assert.Empty(t, resp.Success)
	assert.Len(t, resp.Errors, 1)
	assert.Equal(t, "Sales return recorded but no items were applied", resp.Message)

	got, err := f.uc.Get(f.ctx, adminA, out.SalesReturn.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCreate_SalidaDeOtroTenantEsInvalida(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(f.ctx, returns.CreateInput{
		Actor: inventory.Actor{AdminID: adminB},
		Items: []returns.LineInput{{StockOutID: f.outID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	require.Len(t, out.Rejected(), 1)
	assert.Equal(t, returns.ReasonInvalidStockOut, out.Items[0].Reason)
	assert.True(t, f.outQty(t).Equal(d("4")))
}

func TestCreate_CantidadNoPositiva(t *testing.T) {
	f := newFixture(t)

	out := f.create(t,
		returns.LineInput{StockOutID: f.outID, Quantity: d("0")},
		returns.LineInput{StockOutID: f.outID, Quantity: d("-1")},
	)
	require.Len(t, out.Rejected(), 2)
	for _, it := range out.Items {
		assert.Equal(t, returns.ReasonInvalidQuantity, it.Reason)
	}
	assert.True(t, f.onHand(t).Equal(d("6")))
}

func TestCreate_ErroresDeLote(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(f.ctx, returns.CreateInput{Actor: f.actor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(f.ctx, returns.CreateInput{
		Items: []returns.LineInput{{StockOutID: f.outID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.List(f.ctx, adminA)
	require.NoError(t, err)
	assert.Empty(t, list, "un lote rechazado completo no crea cabecera")
	assert.True(t, f.outQty(t).Equal(d("4")))
}

func TestCreate_StockRelacionadoInexistente(t *testing.T) {
	f := newFixtureWithTx(t, func(r inventory.Repos) inventory.Repos {
		r.Stock = missingStock{r.Stock}
		return r
	})

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	require.Len(t, out.Rejected(), 1)
	assert.Equal(t, returns.ReasonRelatedStockNotFound, out.Items[0].Reason)
	assert.Equal(t, "Related stock not found", out.Items[0].Message)
}

func TestCreate_ConflictoSeReintenta(t *testing.T) {
	fails := 2
	f := newFixtureWithTx(t, func(r inventory.Repos) inventory.Repos {
		r.Stock = flakyStock{StockItemRepository: r.Stock, fails: &fails}
		return r
	})

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	require.Len(t, out.Applied(), 1)
	assert.Zero(t, fails)
	assert.True(t, f.onHand(t).Equal(d("7")))

	entries, err := f.ledger.ListBySource(f.ctx, adminA, out.SalesReturn.CreditNoteID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "los intentos fallidos no dejan movimientos")
}

func TestCreate_ConflictoPersistenteSeRechaza(t *testing.T) {
	fails := 100
	f := newFixtureWithTx(t, func(r inventory.Repos) inventory.Repos {
		r.Stock = flakyStock{StockItemRepository: r.Stock, fails: &fails}
		return r
	})

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	require.Len(t, out.Rejected(), 1)
	assert.Equal(t, returns.ReasonConflict, out.Items[0].Reason)
	assert.Equal(t, 97, fails, "tres intentos")
	assert.True(t, f.onHand(t).Equal(d("6")))
}

func TestCreate_FalloInternoRevierteLaLinea(t *testing.T) {
	f := newFixtureWithTx(t, func(r inventory.Repos) inventory.Repos {
		r.StockOut = brokenOuts{r.StockOut}
		return r
	})

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("2")})
	require.Len(t, out.Rejected(), 1)
	assert.Equal(t, returns.ReasonInternal, out.Items[0].Reason)
	assert.NotContains(t, out.Items[0].Message, "conexión", "el detalle técnico no se expone")

	assert.True(t, f.onHand(t).Equal(d("6")), "el stock restituido se revierte con la línea")
	entries, err := f.ledger.ListByStock(f.ctx, adminA, f.stockID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, entries, 2, "solo RECEIPT y SALE")
}

func TestList_SinDevolucionesDevuelveVacio(t *testing.T) {
	f := newFixture(t)

	list, err := f.uc.List(f.ctx, adminA)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.uc.List(f.ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_PorTenantConItems(t *testing.T) {
	f := newFixture(t)
	f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})

	list, err := f.uc.List(f.ctx, adminA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	require.NotNil(t, list[0].Items[0].StockOut)
	require.NotNil(t, list[0].Items[0].StockOut.Stock)
	assert.Equal(t, "SKU-1", list[0].Items[0].StockOut.Stock.SKU)

	other, err := f.uc.List(f.ctx, adminB)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGet_NoEncontrado(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Get(f.ctx, adminA, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Get(f.ctx, adminA, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	_, err = f.uc.Get(f.ctx, adminB, out.SalesReturn.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "otro tenant no ve la devolución")
}

type fakeRenderer struct {
	got *entity.SalesReturn
}

func (r *fakeRenderer) GenerateCreditNotePDF(ctx context.Context, sr *entity.SalesReturn) ([]byte, error) {
	r.got = sr
	return []byte("%PDF-fake"), nil
}

func TestCreditNotePDF(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})

	r := &fakeRenderer{}
	pdf, name, err := f.uc.CreditNotePDF(f.ctx, r, adminA, out.SalesReturn.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, out.SalesReturn.CreditNoteID+".pdf", name)
	require.NotNil(t, r.got)
	assert.Len(t, r.got.Items, 1)

	_, _, err = f.uc.CreditNotePDF(f.ctx, r, adminB, out.SalesReturn.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_NotaCreditoRepetidaGeneraOtroNumero(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, returns.LineInput{StockOutID: f.outID, Quantity: d("1")})
	require.Equal(t, "CR-NOTE-000001", first.SalesReturn.CreditNoteID)

	// secuencia reiniciada: vuelve a entregar el mismo número
	restarted := returns.NewSalesReturnUseCase(f.store, memory.NewSalesReturnRepository(f.store),
		func(...string) string { return "CR-NOTE-000001" }, returns.Config{MaxConflictRetries: 3}, logger.Nop())

	out, err := restarted.Create(f.ctx, returns.CreateInput{
		Actor: f.actor, TransactionID: "TX-1", Items: []returns.LineInput{{StockOutID: f.outID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^CR-NOTE-[0-9A-F]{10}$`, out.SalesReturn.CreditNoteID)
	assert.Len(t, out.Applied(), 1)
	assert.True(t, f.onHand(t).Equal(d("8")))

	list, err := f.uc.List(f.ctx, adminA)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreate_CantidadFraccionariaSeRedondea(t *testing.T) {
	f := newFixture(t)
	out := f.create(t,
		returns.LineInput{StockOutID: f.outID, Quantity: d("0.00004")},
		returns.LineInput{StockOutID: f.outID, Quantity: d("1.23456")},
	)

	require.Len(t, out.Items, 2)
	assert.Equal(t, returns.ReasonInvalidQuantity, out.Items[0].Reason)
	require.Equal(t, returns.StatusApplied, out.Items[1].Status)
	assert.True(t, f.onHand(t).Equal(d("7.2346")))
	assert.True(t, f.outQty(t).Equal(d("2.7654")))

	item, err := memory.NewStockItemRepository(f.store).GetByID(f.ctx, f.stockID)
	require.NoError(t, err)
	assert.True(t, item.TotalValue.Equal(item.Quantity.Mul(item.UnitCost)))
	assert.True(t, item.TotalValue.Equal(d("14.4692")))
}
