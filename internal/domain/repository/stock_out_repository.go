package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// StockOutRepository define el puerto de persistencia de salidas.
type StockOutRepository interface {
	Create(ctx context.Context, out *entity.StockOut) error
	// GetByID incluye la fila de stock de origen (Stock).
	GetByID(ctx context.Context, id string) (*entity.StockOut, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockOut, error)
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockOut, error)
}
