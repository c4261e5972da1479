package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

// Actor identifica quién origina un movimiento: el admin (tenant) y opcionalmente un empleado.
type Actor struct {
	AdminID    string
	EmployeeID string
}

// MovementInput datos de una entrada del ledger.
type MovementInput struct {
	AdminID      string
	StockID      string
	MovementType string
	SourceType   string
	SourceID     string
	QtyBefore    decimal.Decimal
	QtyChange    decimal.Decimal
	QtyAfter     decimal.Decimal
	UnitPrice    decimal.Decimal
	Note         string
	Actor        Actor
}

// RecordMovement agrega una entrada al ledger. Solo valida presencia de campos; la
// aritmética before/change/after es responsabilidad del llamador.
func RecordMovement(ctx context.Context, repo repository.StockHistoryRepository, in MovementInput, now time.Time) (*entity.StockHistory, error) {
	if in.StockID == "" || in.SourceType == "" || !entity.ValidMovementType(in.MovementType) {
		return nil, fmt.Errorf("%w: movimiento sin stock, tipo u origen", domain.ErrInvalidInput)
	}
	entry := &entity.StockHistory{
		ID:              uuid.New().String(),
		AdminID:         in.AdminID,
		StockID:         in.StockID,
		MovementType:    in.MovementType,
		SourceType:      in.SourceType,
		SourceID:        in.SourceID,
		QtyBefore:       in.QtyBefore,
		QtyChange:       in.QtyChange,
		QtyAfter:        in.QtyAfter,
		UnitPrice:       in.UnitPrice,
		Note:            in.Note,
		ActorAdminID:    in.Actor.AdminID,
		ActorEmployeeID: in.Actor.EmployeeID,
		CreatedAt:       now,
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LedgerUseCase consultas sobre el ledger de movimientos.
type LedgerUseCase struct {
	repo repository.StockHistoryRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(repo repository.StockHistoryRepository) *LedgerUseCase {
	return &LedgerUseCase{repo: repo}
}

// ListByStock movimientos de una fila de stock, más recientes primero.
func (uc *LedgerUseCase) ListByStock(ctx context.Context, adminID, stockID string, page dto.PageRequest) ([]dto.StockHistoryResponse, error) {
	if adminID == "" || stockID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.ListByStock(ctx, adminID, stockID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

// ListBySource movimientos generados por un documento (nota crédito, transacción).
func (uc *LedgerUseCase) ListBySource(ctx context.Context, adminID, sourceID string, page dto.PageRequest) ([]dto.StockHistoryResponse, error) {
	if adminID == "" || sourceID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.ListBySource(ctx, adminID, sourceID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

// ListByType movimientos de un tipo (IN, OUT, ADJUSTMENT).
func (uc *LedgerUseCase) ListByType(ctx context.Context, adminID, movementType string, page dto.PageRequest) ([]dto.StockHistoryResponse, error) {
	if adminID == "" || !entity.ValidMovementType(movementType) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.ListByType(ctx, adminID, movementType, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

func toHistoryResponses(list []*entity.StockHistory) []dto.StockHistoryResponse {
	out := make([]dto.StockHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.StockHistoryResponse{
			ID:              h.ID,
			StockID:         h.StockID,
			MovementType:    h.MovementType,
			SourceType:      h.SourceType,
			SourceID:        h.SourceID,
			QtyBefore:       h.QtyBefore,
			QtyChange:       h.QtyChange,
			QtyAfter:        h.QtyAfter,
			UnitPrice:       h.UnitPrice,
			Note:            h.Note,
			ActorAdminID:    h.ActorAdminID,
			ActorEmployeeID: h.ActorEmployeeID,
			CreatedAt:       h.CreatedAt,
		})
	}
	return out
}
