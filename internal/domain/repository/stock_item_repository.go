package repository

import (
	"context"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// StockItemRepository define el puerto de persistencia del Quantity Store.
// Los Get devuelven (nil, nil) cuando la fila no existe.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetBySKU(ctx context.Context, adminID, sku string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	// Update persiste cantidad, costo y valor si item.Version coincide con la versión
	// almacenada; en ese caso incrementa item.Version. Si no coincide devuelve domain.ErrConflict.
	Update(ctx context.Context, item *entity.StockItem) error
	ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockItem, error)
	// ListBelowReorder lista filas con quantity <= reorder_level.
	ListBelowReorder(ctx context.Context, adminID string) ([]*entity.StockItem, error)
}
