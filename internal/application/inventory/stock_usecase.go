package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/stock"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

// StockUseCase opera el Quantity Store: stock-in, ajustes, costo y lecturas.
// Toda escritura de cantidad deja su entrada en el ledger dentro de la misma transacción.
type StockUseCase struct {
	tx        TxRunner
	stockRepo repository.StockItemRepository
	attempts  int
	log       *logger.Logger
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso. attempts acota los reintentos por conflicto.
func NewStockUseCase(tx TxRunner, stockRepo repository.StockItemRepository, attempts int, log *logger.Logger) *StockUseCase {
	return &StockUseCase{
		tx:        tx,
		stockRepo: stockRepo,
		attempts:  attempts,
		log:       log.Component("stock"),
		now:       time.Now,
	}
}

// Receive registra una entrada de mercancía (nueva fila de stock) y su movimiento IN/RECEIPT.
func (uc *StockUseCase) Receive(ctx context.Context, actor Actor, in dto.ReceiveStockRequest) (*dto.StockItemResponse, error) {
	if actor.AdminID == "" {
		return nil, fmt.Errorf("%w: adminId requerido", domain.ErrInvalidInput)
	}
	in.SKU = strings.TrimSpace(in.SKU)
	if in.SKU == "" || strings.TrimSpace(in.ItemName) == "" {
		return nil, fmt.Errorf("%w: sku e itemName son requeridos", domain.ErrInvalidInput)
	}
	if in.Quantity.IsNegative() || in.UnitCost.IsNegative() || in.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y costos no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = "unit"
	}
	in.Quantity, in.UnitCost, in.ReorderLevel = stock.Round(in.Quantity), stock.Round(in.UnitCost), stock.Round(in.ReorderLevel)

	now := uc.now()
	received := now
	if in.ReceivedDate != nil {
		received = *in.ReceivedDate
	}
	item := &entity.StockItem{
		ID:            uuid.New().String(),
		AdminID:       actor.AdminID,
		SKU:           in.SKU,
		ItemName:      in.ItemName,
		CategoryID:    in.CategoryID,
		Supplier:      in.Supplier,
		UnitOfMeasure: in.UnitOfMeasure,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		Location:      in.Location,
		ReorderLevel:  in.ReorderLevel,
		ReceivedDate:  received,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	stock.Revalue(item)

	err := uc.tx.Run(ctx, func(repos Repos) error {
		existing, err := repos.Stock.GetBySKU(ctx, actor.AdminID, item.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := repos.Stock.Create(ctx, item); err != nil {
			return err
		}
		_, err = RecordMovement(ctx, repos.History, MovementInput{
			AdminID:      actor.AdminID,
			StockID:      item.ID,
			MovementType: entity.MovementTypeIN,
			SourceType:   entity.SourceTypeReceipt,
			SourceID:     item.ID,
			QtyBefore:    decimal.Zero,
			QtyChange:    item.Quantity,
			QtyAfter:     item.Quantity,
			UnitPrice:    item.UnitCost,
			Note:         "Stock received",
			Actor:        actor,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("admin_id", actor.AdminID).Str("sku", item.SKU).Str("qty", item.Quantity.String()).Msg("stock recibido")
	return ToStockItemResponse(item), nil
}

// Get devuelve una fila de stock del tenant.
func (uc *StockUseCase) Get(ctx context.Context, adminID, id string) (*dto.StockItemResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.AdminID != adminID {
		return nil, domain.ErrNotFound
	}
	return ToStockItemResponse(item), nil
}

// GetBySKU busca por SKU dentro del tenant.
func (uc *StockUseCase) GetBySKU(ctx context.Context, adminID, sku string) (*dto.StockItemResponse, error) {
	if adminID == "" || sku == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.stockRepo.GetBySKU(ctx, adminID, sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return ToStockItemResponse(item), nil
}

// List lista el stock del tenant con paginación.
func (uc *StockUseCase) List(ctx context.Context, adminID string, page dto.PageRequest) (*dto.StockItemListResponse, error) {
	if adminID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.stockRepo.ListByAdmin(ctx, adminID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToStockItemResponse(it))
	}
	return &dto.StockItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// ListLowStock filas en o por debajo del nivel de reorden.
func (uc *StockUseCase) ListLowStock(ctx context.Context, adminID string) ([]dto.StockItemResponse, error) {
	if adminID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.stockRepo.ListBelowReorder(ctx, adminID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *ToStockItemResponse(it))
	}
	return out, nil
}

// Adjust aplica un delta con signo a la cantidad y registra un movimiento ADJUSTMENT.
// Falla con ErrInvalidQuantity si el saldo quedaría negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, actor Actor, id string, in dto.AdjustStockRequest) (*dto.StockItemResponse, error) {
	in.Delta = stock.Round(in.Delta)
	if actor.AdminID == "" || id == "" || in.Delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.StockItem
	err := RunWithRetry(ctx, uc.tx, uc.attempts, func(repos Repos) error {
		item, err := lockStock(ctx, repos, actor.AdminID, id)
		if err != nil {
			return err
		}
		before := item.Quantity
		after, err := stock.ApplyDelta(before, in.Delta)
		if err != nil {
			return err
		}
		now := uc.now()
		item.Quantity = after
		item.UpdatedAt = now
		stock.Revalue(item)
		if err := repos.Stock.Update(ctx, item); err != nil {
			return err
		}
		note := in.Note
		if note == "" {
			note = "Manual adjustment"
		}
		if _, err := RecordMovement(ctx, repos.History, MovementInput{
			AdminID:      actor.AdminID,
			StockID:      item.ID,
			MovementType: entity.MovementTypeADJUSTMENT,
			SourceType:   entity.SourceTypeManual,
			QtyBefore:    before,
			QtyChange:    in.Delta,
			QtyAfter:     after,
			UnitPrice:    item.UnitCost,
			Note:         note,
			Actor:        actor,
		}, now); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(result), nil
}

// UpdateUnitCost cambia el costo unitario y revalúa el saldo completo con el costo nuevo.
// Deja una entrada ADJUSTMENT/COST_UPDATE con cambio de cantidad cero.
func (uc *StockUseCase) UpdateUnitCost(ctx context.Context, actor Actor, id string, in dto.UpdateUnitCostRequest) (*dto.StockItemResponse, error) {
	in.UnitCost = stock.Round(in.UnitCost)
	if actor.AdminID == "" || id == "" || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.StockItem
	err := RunWithRetry(ctx, uc.tx, uc.attempts, func(repos Repos) error {
		item, err := lockStock(ctx, repos, actor.AdminID, id)
		if err != nil {
			return err
		}
		now := uc.now()
		previous := item.UnitCost
		item.UnitCost = in.UnitCost
		item.UpdatedAt = now
		stock.Revalue(item)
		if err := repos.Stock.Update(ctx, item); err != nil {
			return err
		}
		if _, err := RecordMovement(ctx, repos.History, MovementInput{
			AdminID:      actor.AdminID,
			StockID:      item.ID,
			MovementType: entity.MovementTypeADJUSTMENT,
			SourceType:   entity.SourceTypeCost,
			QtyBefore:    item.Quantity,
			QtyChange:    decimal.Zero,
			QtyAfter:     item.Quantity,
			UnitPrice:    item.UnitCost,
			Note:         fmt.Sprintf("Unit cost %s -> %s", previous.String(), item.UnitCost.String()),
			Actor:        actor,
		}, now); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(result), nil
}

// lockStock bloquea la fila y verifica que pertenezca al tenant.
func lockStock(ctx context.Context, repos Repos, adminID, id string) (*entity.StockItem, error) {
	item, err := repos.Stock.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.AdminID != adminID {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
