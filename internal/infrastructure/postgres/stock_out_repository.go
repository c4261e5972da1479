package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockOutRepository = (*StockOutRepo)(nil)

const stockOutColumns = `id, admin_id, stock_id, transaction_id, employee_id, quantity, sold_price, created_at, updated_at`

// StockOutRepo implementación de StockOutRepository sobre PostgreSQL.
type StockOutRepo struct {
	q Querier
}

// NewStockOutRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockOutRepository(q Querier) *StockOutRepo {
	return &StockOutRepo{q: q}
}

func scanStockOut(row scanner) (*entity.StockOut, error) {
	var so entity.StockOut
	err := row.Scan(&so.ID, &so.AdminID, &so.StockID, &so.TransactionID, &so.EmployeeID,
		&so.Quantity, &so.SoldPrice, &so.CreatedAt, &so.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &so, nil
}

func (r *StockOutRepo) Create(ctx context.Context, out *entity.StockOut) error {
	query := `INSERT INTO stock_outs (` + stockOutColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, out.ID, out.AdminID, out.StockID, out.TransactionID, out.EmployeeID,
		out.Quantity, out.SoldPrice, out.CreatedAt, out.UpdatedAt)
	return mapWriteErr("insert stock out", err)
}

// GetByID obtiene la salida con su stock de origen.
func (r *StockOutRepo) GetByID(ctx context.Context, id string) (*entity.StockOut, error) {
	so, err := r.getOne(ctx, `SELECT `+stockOutColumns+` FROM stock_outs WHERE id = $1`, id)
	if err != nil || so == nil {
		return so, err
	}
	so.Stock, err = NewStockItemRepository(r.q).GetByID(ctx, so.StockID)
	if err != nil {
		return nil, err
	}
	return so, nil
}

// GetForUpdate bloquea la fila de la salida (SELECT FOR UPDATE).
func (r *StockOutRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockOut, error) {
	return r.getOne(ctx, `SELECT `+stockOutColumns+` FROM stock_outs WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockOutRepo) getOne(ctx context.Context, query, id string) (*entity.StockOut, error) {
	if !validID(id) {
		return nil, nil
	}
	so, err := scanStockOut(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapWriteErr("get stock out", err)
	}
	return so, nil
}

func (r *StockOutRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_outs SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return mapWriteErr("update stock out", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock out %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByAdmin lista las salidas del tenant, más recientes primero, con su stock.
func (r *StockOutRepo) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockOut, error) {
	query := `SELECT ` + stockOutColumns + ` FROM stock_outs
		WHERE admin_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, adminID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock outs: %w", err)
	}
	out, err := collectStockOuts(rows)
	if err != nil {
		return nil, err
	}
	if err := attachStock(ctx, r.q, out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectStockOuts(rows pgx.Rows) ([]*entity.StockOut, error) {
	defer rows.Close()
	out := make([]*entity.StockOut, 0)
	for rows.Next() {
		so, err := scanStockOut(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock out: %w", err)
		}
		out = append(out, so)
	}
	return out, rows.Err()
}

func attachStock(ctx context.Context, q Querier, outs []*entity.StockOut) error {
	ids := make([]string, 0, len(outs))
	for _, so := range outs {
		ids = append(ids, so.StockID)
	}
	stocks, err := stockByIDs(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, so := range outs {
		so.Stock = stocks[so.StockID]
	}
	return nil
}

// stockOutsByIDs carga salidas (con stock) por id.
func stockOutsByIDs(ctx context.Context, q Querier, ids []string) (map[string]*entity.StockOut, error) {
	result := make(map[string]*entity.StockOut, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := q.Query(ctx, `SELECT `+stockOutColumns+` FROM stock_outs WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("load stock outs: %w", err)
	}
	outs, err := collectStockOuts(rows)
	if err != nil {
		return nil, err
	}
	if err := attachStock(ctx, q, outs); err != nil {
		return nil, err
	}
	for _, so := range outs {
		result[so.ID] = so
	}
	return result, nil
}
