package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/stock"
	"github.com/Mihigojordan/Abysphere-sub003/pkg/logger"
)

// StockOutUseCase registra ventas/despachos y consulta salidas.
type StockOutUseCase struct {
	tx       TxRunner
	outRepo  repository.StockOutRepository
	attempts int
	log      *logger.Logger
	now      func() time.Time
}

// NewStockOutUseCase construye el caso de uso.
func NewStockOutUseCase(tx TxRunner, outRepo repository.StockOutRepository, attempts int, log *logger.Logger) *StockOutUseCase {
	return &StockOutUseCase{
		tx:       tx,
		outRepo:  outRepo,
		attempts: attempts,
		log:      log.Component("stock_out"),
		now:      time.Now,
	}
}

// Record descuenta la cantidad del stock de origen, registra OUT/SALE en el ledger
// y crea la fila de stock-out, todo en una transacción.
func (uc *StockOutUseCase) Record(ctx context.Context, actor Actor, in dto.RecordStockOutRequest) (*dto.StockOutResponse, error) {
	if actor.AdminID == "" || in.StockID == "" {
		return nil, domain.ErrInvalidInput
	}
	in.Quantity, in.SoldPrice = stock.Round(in.Quantity), stock.Round(in.SoldPrice)
	if !in.Quantity.IsPositive() || in.SoldPrice.IsNegative() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
	}

	var out *entity.StockOut
	err := RunWithRetry(ctx, uc.tx, uc.attempts, func(repos Repos) error {
		item, err := lockStock(ctx, repos, actor.AdminID, in.StockID)
		if err != nil {
			return err
		}
		if item.Quantity.LessThan(in.Quantity) {
			return domain.ErrInsufficientStock
		}
		before := item.Quantity
		after, err := stock.ApplyDelta(before, in.Quantity.Neg())
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

		so := &entity.StockOut{
			ID:            uuid.New().String(),
			AdminID:       actor.AdminID,
			StockID:       item.ID,
			TransactionID: in.TransactionID,
			EmployeeID:    actor.EmployeeID,
			Quantity:      in.Quantity,
			SoldPrice:     in.SoldPrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := RecordMovement(ctx, repos.History, MovementInput{
			AdminID:      actor.AdminID,
			StockID:      item.ID,
			MovementType: entity.MovementTypeOUT,
			SourceType:   entity.SourceTypeSale,
			SourceID:     so.ID,
			QtyBefore:    before,
			QtyChange:    in.Quantity,
			QtyAfter:     after,
			UnitPrice:    in.SoldPrice,
			Note:         "Stock out",
			Actor:        actor,
		}, now); err != nil {
			return err
		}
		if err := repos.StockOut.Create(ctx, so); err != nil {
			return err
		}
		so.Stock = item
		out = so
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("admin_id", actor.AdminID).Str("stock_id", in.StockID).Str("qty", in.Quantity.String()).Msg("salida registrada")
	return ToStockOutResponse(out), nil
}

// Get devuelve una salida del tenant con su stock de origen.
func (uc *StockOutUseCase) Get(ctx context.Context, adminID, id string) (*dto.StockOutResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	so, err := uc.outRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if so == nil || so.AdminID != adminID {
		return nil, domain.ErrNotFound
	}
	return ToStockOutResponse(so), nil
}

// List lista las salidas del tenant.
func (uc *StockOutUseCase) List(ctx context.Context, adminID string, page dto.PageRequest) (*dto.StockOutListResponse, error) {
	if adminID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.outRepo.ListByAdmin(ctx, adminID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockOutResponse, 0, len(list))
	for _, so := range list {
		items = append(items, *ToStockOutResponse(so))
	}
	return &dto.StockOutListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}
