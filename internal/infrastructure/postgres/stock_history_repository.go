package postgres

import (
	"context"
	"fmt"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

const stockHistoryColumns = `id, admin_id, stock_id, movement_type, source_type, source_id,
	qty_before, qty_change, qty_after, unit_price, note, actor_admin_id, actor_employee_id, created_at`

// StockHistoryRepo ledger sobre PostgreSQL. Solo INSERT y SELECT.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

func (r *StockHistoryRepo) Create(ctx context.Context, e *entity.StockHistory) error {
	query := `INSERT INTO stock_history (` + stockHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.AdminID, e.StockID, e.MovementType, e.SourceType, e.SourceID,
		e.QtyBefore, e.QtyChange, e.QtyAfter, e.UnitPrice, e.Note, e.ActorAdminID, e.ActorEmployeeID, e.CreatedAt,
	)
	return mapWriteErr("insert stock history", err)
}

func (r *StockHistoryRepo) ListByStock(ctx context.Context, adminID, stockID string, limit, offset int) ([]*entity.StockHistory, error) {
	if !validID(stockID) {
		return []*entity.StockHistory{}, nil
	}
	return r.list(ctx, `stock_id = $2`, adminID, stockID, limit, offset)
}

func (r *StockHistoryRepo) ListBySource(ctx context.Context, adminID, sourceID string, limit, offset int) ([]*entity.StockHistory, error) {
	return r.list(ctx, `source_id = $2`, adminID, sourceID, limit, offset)
}

func (r *StockHistoryRepo) ListByType(ctx context.Context, adminID, movementType string, limit, offset int) ([]*entity.StockHistory, error) {
	return r.list(ctx, `movement_type = $2`, adminID, movementType, limit, offset)
}

// list ordena por seq descendente: el orden de inserción desempata timestamps iguales.
func (r *StockHistoryRepo) list(ctx context.Context, cond, adminID, value string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `SELECT ` + stockHistoryColumns + ` FROM stock_history
		WHERE admin_id = $1 AND ` + cond + ` ORDER BY seq DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, adminID, value, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.StockHistory, 0)
	for rows.Next() {
		var e entity.StockHistory
		if err := rows.Scan(
			&e.ID, &e.AdminID, &e.StockID, &e.MovementType, &e.SourceType, &e.SourceID,
			&e.QtyBefore, &e.QtyChange, &e.QtyAfter, &e.UnitPrice, &e.Note, &e.ActorAdminID, &e.ActorEmployeeID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
