package memory

import (
	"context"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepository)(nil)

// StockHistoryRepository ledger en memoria, solo anexa.
type StockHistoryRepository struct {
	s    *Store
	inTx bool
}

// NewStockHistoryRepository repositorio fuera de transacción.
func NewStockHistoryRepository(s *Store) *StockHistoryRepository {
	return &StockHistoryRepository{s: s}
}

func (r *StockHistoryRepository) Create(ctx context.Context, entry *entity.StockHistory) error {
	c := *entry
	r.s.do(r.inTx, func() { r.s.history = append(r.s.history, &c) })
	return nil
}

func (r *StockHistoryRepository) ListByStock(ctx context.Context, adminID, stockID string, limit, offset int) ([]*entity.StockHistory, error) {
	return r.list(func(h *entity.StockHistory) bool {
		return h.AdminID == adminID && h.StockID == stockID
	}, limit, offset), nil
}

func (r *StockHistoryRepository) ListBySource(ctx context.Context, adminID, sourceID string, limit, offset int) ([]*entity.StockHistory, error) {
	return r.list(func(h *entity.StockHistory) bool {
		return h.AdminID == adminID && h.SourceID == sourceID
	}, limit, offset), nil
}

func (r *StockHistoryRepository) ListByType(ctx context.Context, adminID, movementType string, limit, offset int) ([]*entity.StockHistory, error) {
	return r.list(func(h *entity.StockHistory) bool {
		return h.AdminID == adminID && h.MovementType == movementType
	}, limit, offset), nil
}

// list recorre el ledger del final al inicio (más reciente primero).
func (r *StockHistoryRepository) list(keep func(*entity.StockHistory) bool, limit, offset int) []*entity.StockHistory {
	out := make([]*entity.StockHistory, 0)
	r.s.do(r.inTx, func() {
		for i := len(r.s.history) - 1; i >= 0; i-- {
			if h := r.s.history[i]; keep(h) {
				c := *h
				out = append(out, &c)
			}
		}
	})
	return page(out, limit, offset)
}
