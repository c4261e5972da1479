package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, admin_id, sku, item_name, category_id, supplier, unit_of_measure,
	quantity, unit_cost, total_value, location, reorder_level, received_date, version, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

func scanStockItem(row scanner) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(
		&s.ID, &s.AdminID, &s.SKU, &s.ItemName, &s.CategoryID, &s.Supplier, &s.UnitOfMeasure,
		&s.Quantity, &s.UnitCost, &s.TotalValue, &s.Location, &s.ReorderLevel, &s.ReceivedDate,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la fila con versión 1.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, admin_id, sku, item_name, category_id, supplier, unit_of_measure,
			quantity, unit_cost, total_value, location, reorder_level, received_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.AdminID, item.SKU, item.ItemName, item.CategoryID, item.Supplier, item.UnitOfMeasure,
		item.Quantity, item.UnitCost, item.TotalValue, item.Location, item.ReorderLevel, item.ReceivedDate,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert stock item", err)
	}
	item.Version = 1
	return nil
}

func (r *StockItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.StockItem, error) {
	item, err := scanStockItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapWriteErr(op, err)
	}
	return item, nil
}

// GetByID obtiene una fila por id. (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock item", `SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1`, id)
}

// GetBySKU busca por SKU dentro del tenant.
func (r *StockItemRepo) GetBySKU(ctx context.Context, adminID, sku string) (*entity.StockItem, error) {
	return r.getOne(ctx, "get stock item by sku",
		`SELECT `+stockItemColumns+` FROM stock_items WHERE admin_id = $1 AND sku = $2`, adminID, sku)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get stock item for update",
		`SELECT `+stockItemColumns+` FROM stock_items WHERE id = $1 FOR UPDATE`, id)
}

// Update escribe cantidad, costo y valor solo si la versión coincide (compare-and-swap).
func (r *StockItemRepo) Update(ctx context.Context, item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET quantity = $3, unit_cost = $4, total_value = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Version, item.Quantity, item.UnitCost, item.TotalValue, item.UpdatedAt)
	if err != nil {
		return mapWriteErr("update stock item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock item %s (version %d): %w", item.ID, item.Version, domain.ErrConflict)
	}
	item.Version++
	return nil
}

// ListByAdmin lista el stock del tenant ordenado por nombre.
func (r *StockItemRepo) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items
		WHERE admin_id = $1 ORDER BY item_name, sku LIMIT $2 OFFSET $3`
	return r.list(ctx, query, adminID, limit, offset)
}

// ListBelowReorder filas con quantity <= reorder_level.
func (r *StockItemRepo) ListBelowReorder(ctx context.Context, adminID string) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items
		WHERE admin_id = $1 AND quantity <= reorder_level ORDER BY item_name, sku`
	return r.list(ctx, query, adminID)
}

func (r *StockItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.StockItem, 0)
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// stockByIDs carga varias filas en una consulta (carga ansiosa de salidas y devoluciones).
func stockByIDs(ctx context.Context, q Querier, ids []string) (map[string]*entity.StockItem, error) {
	out := make(map[string]*entity.StockItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT `+stockItemColumns+` FROM stock_items WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("load stock items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out[item.ID] = item
	}
	return out, rows.Err()
}
