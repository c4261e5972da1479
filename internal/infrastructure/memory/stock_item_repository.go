package memory

import (
	"context"
	"sort"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepository)(nil)

// StockItemRepository implementación en memoria del Quantity Store.
type StockItemRepository struct {
	s    *Store
	inTx bool
}

// NewStockItemRepository repositorio fuera de transacción.
func NewStockItemRepository(s *Store) *StockItemRepository {
	return &StockItemRepository{s: s}
}

func (r *StockItemRepository) Create(ctx context.Context, item *entity.StockItem) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.stock[item.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		for _, it := range r.s.stock {
			if it.AdminID == item.AdminID && it.SKU == item.SKU {
				err = domain.ErrDuplicate
				return
			}
		}
		item.Version = 1
		r.s.stock[item.ID] = cloneStock(item)
	})
	return err
}

func (r *StockItemRepository) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	r.s.do(r.inTx, func() { out = cloneStock(r.s.stock[id]) })
	return out, nil
}

func (r *StockItemRepository) GetBySKU(ctx context.Context, adminID, sku string) (*entity.StockItem, error) {
	var out *entity.StockItem
	r.s.do(r.inTx, func() {
		for _, it := range r.s.stock {
			if it.AdminID == adminID && it.SKU == sku {
				out = cloneStock(it)
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: dentro de Run el almacén ya está bloqueado.
func (r *StockItemRepository) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *StockItemRepository) Update(ctx context.Context, item *entity.StockItem) error {
	var err error
	r.s.do(r.inTx, func() {
		cur, ok := r.s.stock[item.ID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		if cur.Version != item.Version {
			err = domain.ErrConflict
			return
		}
		item.Version++
		r.s.stock[item.ID] = cloneStock(item)
	})
	return err
}

func (r *StockItemRepository) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	r.s.do(r.inTx, func() {
		out = r.filter(func(it *entity.StockItem) bool { return it.AdminID == adminID })
	})
	return page(out, limit, offset), nil
}

func (r *StockItemRepository) ListBelowReorder(ctx context.Context, adminID string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	r.s.do(r.inTx, func() {
		out = r.filter(func(it *entity.StockItem) bool {
			return it.AdminID == adminID && it.Quantity.LessThanOrEqual(it.ReorderLevel)
		})
	})
	return out, nil
}

// filter devuelve copias ordenadas por nombre y SKU, como el listado SQL.
func (r *StockItemRepository) filter(keep func(*entity.StockItem) bool) []*entity.StockItem {
	out := make([]*entity.StockItem, 0)
	for _, it := range r.s.stock {
		if keep(it) {
			out = append(out, cloneStock(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemName != out[j].ItemName {
			return out[i].ItemName < out[j].ItemName
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}
