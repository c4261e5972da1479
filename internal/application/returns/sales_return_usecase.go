package returns

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/stock"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/docid"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

const maxCreditNoteRetries = 3

// Config parámetros del procesador.
type Config struct {
	MaxConflictRetries int
}

// SalesReturnUseCase convierte un lote de líneas devueltas en stock restituido, stock-outs
// decrementados y entradas de ledger. Cada línea es una unidad de trabajo independiente:
// una línea inválida no impide aplicar las demás.
type SalesReturnUseCase struct {
	tx          inventory.TxRunner
	returnsRepo repository.SalesReturnRepository
	nextID      docid.Generator
	attempts    int
	log         *logger.Logger
	now         func() time.Time
}

// NewSalesReturnUseCase construye el caso de uso. nextID genera el número de nota crédito.
func NewSalesReturnUseCase(
	tx inventory.TxRunner,
	returnsRepo repository.SalesReturnRepository,
	nextID docid.Generator,
	cfg Config,
	log *logger.Logger,
) *SalesReturnUseCase {
	if nextID == nil {
		nextID = docid.New
	}
	return &SalesReturnUseCase{
		tx:          tx,
		returnsRepo: returnsRepo,
		nextID:      nextID,
		attempts:    cfg.MaxConflictRetries,
		log:         log.Component("sales_return"),
		now:         time.Now,
	}
}

// LineInput una línea del lote.
type LineInput struct {
	StockOutID string
	Quantity   decimal.Decimal
}

// CreateInput solicitud de devolución. Actor.AdminID es el tenant.
type CreateInput struct {
	Actor         inventory.Actor
	TransactionID string
	Reason        string
	CreatedAt     *time.Time
	Items         []LineInput
}

// Create registra la devolución y procesa las líneas en orden, una transacción por línea.
// Solo falla completo (domain.ErrInvalidInput) si no hay líneas o falta el tenant; los
// errores por línea quedan en Outcome.Items.
func (uc *SalesReturnUseCase) Create(ctx context.Context, in CreateInput) (*Outcome, error) {
	if in.Actor.AdminID == "" {
		return nil, fmt.Errorf("%w: adminId es requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un ítem", domain.ErrInvalidInput)
	}

	createdAt := uc.now()
	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		createdAt = *in.CreatedAt
	}
	sr := &entity.SalesReturn{
		ID:            uuid.New().String(),
		AdminID:       in.Actor.AdminID,
		TransactionID: in.TransactionID,
		CreditNoteID:  uc.nextID("CR", "NOTE"),
		Reason:        in.Reason,
		CreatedAt:     createdAt,
	}
	if err := uc.createHeader(ctx, sr); err != nil {
		return nil, fmt.Errorf("crear devolución: %w", err)
	}

	out := &Outcome{SalesReturn: sr, Items: make([]ItemOutcome, 0, len(in.Items))}
	for _, line := range in.Items {
		res, item := uc.processLine(ctx, sr, in.Actor, line)
		if item != nil {
			sr.Items = append(sr.Items, *item)
		}
		out.Items = append(out.Items, res)
	}

	applied := len(out.Applied())
	uc.log.Info().
		Str("admin_id", sr.AdminID).
		Str("credit_note", sr.CreditNoteID).
		Str("transaction_id", sr.TransactionID).
		Int("applied", applied).
		Int("rejected", len(in.Items)-applied).
		Msg("devolución procesada")
	return out, nil
}

// createHeader inserta la cabecera. Si el número de nota crédito ya existe (secuencia de
// Redis reiniciada, por ejemplo) reintenta con sufijo aleatorio.
func (uc *SalesReturnUseCase) createHeader(ctx context.Context, sr *entity.SalesReturn) error {
	err := uc.returnsRepo.Create(ctx, sr)
	for i := 0; i < maxCreditNoteRetries && errors.Is(err, domain.ErrDuplicate); i++ {
		uc.log.Warn().Str("credit_note", sr.CreditNoteID).Msg("número de nota crédito repetido, se genera otro")
		sr.CreditNoteID = docid.New("CR", "NOTE")
		err = uc.returnsRepo.Create(ctx, sr)
	}
	return err
}

// processLine ejecuta una línea con reintentos por conflicto y la traduce a ItemOutcome.
func (uc *SalesReturnUseCase) processLine(ctx context.Context, sr *entity.SalesReturn, actor inventory.Actor, line LineInput) (ItemOutcome, *entity.SalesReturnItem) {
	var created *entity.SalesReturnItem
	err := inventory.RunWithRetry(ctx, uc.tx, uc.attempts, func(repos inventory.Repos) error {
		item, err := uc.applyLine(ctx, repos, sr, actor, line)
		if err != nil {
			return err
		}
		created = item
		return nil
	})
	if err == nil {
		return ItemOutcome{
			StockOutID: line.StockOutID,
			Quantity:   line.Quantity,
			Status:     StatusApplied,
			ItemID:     created.ID,
		}, created
	}

	res := ItemOutcome{StockOutID: line.StockOutID, Quantity: line.Quantity, Status: StatusRejected}
	var le *lineError
	switch {
	case errors.As(err, &le):
		res.Reason, res.Message = le.reason, le.message
	case errors.Is(err, domain.ErrConflict):
		res.Reason, res.Message = ReasonConflict, "Concurrent update, retry the item"
	default:
		res.Reason, res.Message = ReasonInternal, "Internal error processing item"
	}
	ev := uc.log.Warn()
	if res.Reason == ReasonInternal {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("credit_note", sr.CreditNoteID).
		Str("stockout_id", line.StockOutID).
		Str("reason", string(res.Reason)).
		Msg("línea de devolución rechazada")
	return res, nil
}

// applyLine: valida el stock-out, restituye el stock de origen, registra IN/RECEIPT,
// decrementa el stock-out y crea el SalesReturnItem. Corre dentro de la tx de la línea.
func (uc *SalesReturnUseCase) applyLine(ctx context.Context, repos inventory.Repos, sr *entity.SalesReturn, actor inventory.Actor, line LineInput) (*entity.SalesReturnItem, error) {
	if line.StockOutID == "" {
		return nil, reject(ReasonInvalidStockOut, "Invalid stockoutId")
	}
	so, err := repos.StockOut.GetForUpdate(ctx, line.StockOutID)
	if err != nil {
		return nil, err
	}
	if so == nil || so.AdminID != sr.AdminID {
		return nil, reject(ReasonInvalidStockOut, "Invalid stockoutId")
	}
	line.Quantity = stock.Round(line.Quantity)
	if !line.Quantity.IsPositive() {
		return nil, reject(ReasonInvalidQuantity, "Returned quantity must be greater than zero")
	}
	if line.Quantity.GreaterThan(so.Quantity) {
		return nil, reject(ReasonQuantityExceeded, fmt.Sprintf(
			"Returned quantity (%s) exceeds stock-out quantity (%s)", line.Quantity.String(), so.Quantity.String()))
	}

	item, err := repos.Stock.GetForUpdate(ctx, so.StockID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, reject(ReasonRelatedStockNotFound, "Related stock not found")
	}

	now := uc.now()
	before := item.Quantity
	after, err := stock.ApplyDelta(before, line.Quantity)
	if err != nil {
		return nil, err
	}
	item.Quantity = after
	item.UpdatedAt = now
	stock.Revalue(item)
	if err := repos.Stock.Update(ctx, item); err != nil {
		return nil, err
	}

	if _, err := inventory.RecordMovement(ctx, repos.History, inventory.MovementInput{
		AdminID:      sr.AdminID,
		StockID:      item.ID,
		MovementType: entity.MovementTypeIN,
		SourceType:   entity.SourceTypeReceipt,
		SourceID:     sr.CreditNoteID,
		QtyBefore:    before,
		QtyChange:    line.Quantity,
		QtyAfter:     after,
		UnitPrice:    item.UnitCost,
		Note:         fmt.Sprintf("Sales return %s (transaction %s)", sr.CreditNoteID, sr.TransactionID),
		Actor:        actor,
	}, now); err != nil {
		return nil, err
	}

	if err := repos.StockOut.UpdateQuantity(ctx, so.ID, so.Quantity.Sub(line.Quantity)); err != nil {
		return nil, err
	}

	sri := &entity.SalesReturnItem{
		ID:            uuid.New().String(),
		SalesReturnID: sr.ID,
		StockOutID:    so.ID,
		Quantity:      line.Quantity,
		CreatedAt:     now,
	}
	if err := repos.Returns.CreateItem(ctx, sri); err != nil {
		return nil, err
	}
	return sri, nil
}

// List devuelve las devoluciones del tenant (vacío no es error).
func (uc *SalesReturnUseCase) List(ctx context.Context, adminID string) ([]dto.SalesReturnResponse, error) {
	if adminID == "" {
		return nil, fmt.Errorf("%w: adminId es requerido", domain.ErrInvalidInput)
	}
	list, err := uc.returnsRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("listar devoluciones: %w", err)
	}
	out := make([]dto.SalesReturnResponse, 0, len(list))
	for _, sr := range list {
		out = append(out, ToSalesReturnResponse(sr))
	}
	return out, nil
}

// Get devuelve una devolución con ítems. adminID vacío omite la verificación de tenant.
func (uc *SalesReturnUseCase) Get(ctx context.Context, adminID, id string) (*dto.SalesReturnResponse, error) {
	sr, err := uc.load(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesReturnResponse(sr)
	return &resp, nil
}

func (uc *SalesReturnUseCase) load(ctx context.Context, adminID, id string) (*entity.SalesReturn, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id es requerido", domain.ErrInvalidInput)
	}
	sr, err := uc.returnsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener devolución: %w", err)
	}
	if sr == nil || (adminID != "" && sr.AdminID != adminID) {
		return nil, domain.ErrNotFound
	}
	return sr, nil
}
