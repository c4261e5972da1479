package repository

import (
	"context"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// StockHistoryRepository es el ledger append-only: no expone Update ni Delete.
// Los listados devuelven primero la entrada más reciente.
type StockHistoryRepository interface {
	Create(ctx context.Context, entry *entity.StockHistory) error
	ListByStock(ctx context.Context, adminID, stockID string, limit, offset int) ([]*entity.StockHistory, error)
	ListBySource(ctx context.Context, adminID, sourceID string, limit, offset int) ([]*entity.StockHistory, error)
	ListByType(ctx context.Context, adminID, movementType string, limit, offset int) ([]*entity.StockHistory, error)
}
