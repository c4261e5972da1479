package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.SalesReturnRepository = (*SalesReturnRepo)(nil)

const salesReturnColumns = `id, admin_id, transaction_id, credit_note_id, reason, created_at`

// SalesReturnRepo implementación de SalesReturnRepository sobre PostgreSQL.
type SalesReturnRepo struct {
	q Querier
}

// NewSalesReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesReturnRepository(q Querier) *SalesReturnRepo {
	return &SalesReturnRepo{q: q}
}

func scanSalesReturn(row scanner) (*entity.SalesReturn, error) {
	var sr entity.SalesReturn
	if err := row.Scan(&sr.ID, &sr.AdminID, &sr.TransactionID, &sr.CreditNoteID, &sr.Reason, &sr.CreatedAt); err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *SalesReturnRepo) Create(ctx context.Context, sr *entity.SalesReturn) error {
	query := `INSERT INTO sales_returns (` + salesReturnColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, sr.ID, sr.AdminID, sr.TransactionID, sr.CreditNoteID, sr.Reason, sr.CreatedAt)
	return mapWriteErr("insert sales return", err)
}

func (r *SalesReturnRepo) CreateItem(ctx context.Context, item *entity.SalesReturnItem) error {
	query := `
		INSERT INTO sales_return_items (id, sales_return_id, stock_out_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, item.ID, item.SalesReturnID, item.StockOutID, item.Quantity, item.CreatedAt)
	return mapWriteErr("insert sales return item", err)
}

// GetByID obtiene la devolución con ítems -> salida -> stock. (nil, nil) si no existe.
func (r *SalesReturnRepo) GetByID(ctx context.Context, id string) (*entity.SalesReturn, error) {
	if !validID(id) {
		return nil, nil
	}
	sr, err := scanSalesReturn(r.q.QueryRow(ctx, `SELECT `+salesReturnColumns+` FROM sales_returns WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales return: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.SalesReturn{sr}); err != nil {
		return nil, err
	}
	return sr, nil
}

// ListByAdmin devoluciones del tenant, más recientes primero.
func (r *SalesReturnRepo) ListByAdmin(ctx context.Context, adminID string) ([]*entity.SalesReturn, error) {
	rows, err := r.q.Query(ctx, `SELECT `+salesReturnColumns+` FROM sales_returns
		WHERE admin_id = $1 ORDER BY created_at DESC`, adminID)
	if err != nil {
		return nil, fmt.Errorf("list sales returns: %w", err)
	}
	list := make([]*entity.SalesReturn, 0)
	for rows.Next() {
		sr, err := scanSalesReturn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales return: %w", err)
		}
		list = append(list, sr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SalesReturnRepo) attachItems(ctx context.Context, list []*entity.SalesReturn) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.SalesReturn, len(list))
	ids := make([]string, 0, len(list))
	for _, sr := range list {
		byID[sr.ID] = sr
		ids = append(ids, sr.ID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sales_return_id, stock_out_id, quantity, created_at
		FROM sales_return_items WHERE sales_return_id = ANY($1::uuid[])
		ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("list sales return items: %w", err)
	}
	items := make([]entity.SalesReturnItem, 0)
	outIDs := make([]string, 0)
	for rows.Next() {
		var it entity.SalesReturnItem
		if err := rows.Scan(&it.ID, &it.SalesReturnID, &it.StockOutID, &it.Quantity, &it.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan sales return item: %w", err)
		}
		items = append(items, it)
		outIDs = append(outIDs, it.StockOutID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	outs, err := stockOutsByIDs(ctx, r.q, outIDs)
	if err != nil {
		return err
	}
	for _, it := range items {
		it.StockOut = outs[it.StockOutID]
		sr := byID[it.SalesReturnID]
		sr.Items = append(sr.Items, it)
	}
	return nil
}
