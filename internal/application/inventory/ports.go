package inventory

import (
	"context"
	"errors"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Stock    repository.StockItemRepository
	StockOut repository.StockOutRepository
	Returns  repository.SalesReturnRepository
	History  repository.StockHistoryRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso. Los conflictos de
// concurrencia (versión, serialización, deadlock) se reportan como domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// RunWithRetry reintenta la unidad de trabajo completa mientras falle con
// domain.ErrConflict, hasta attempts intentos. Cualquier otro error se devuelve de inmediato.
func RunWithRetry(ctx context.Context, tx TxRunner, attempts int, fn func(repos Repos) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = tx.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
