package repository

import (
	"context"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// SalesReturnRepository define el puerto de persistencia de devoluciones.
// Las lecturas cargan ítems -> stock-out -> stock de origen.
type SalesReturnRepository interface {
	Create(ctx context.Context, sr *entity.SalesReturn) error
	CreateItem(ctx context.Context, item *entity.SalesReturnItem) error
	GetByID(ctx context.Context, id string) (*entity.SalesReturn, error)
	ListByAdmin(ctx context.Context, adminID string) ([]*entity.SalesReturn, error)
}
