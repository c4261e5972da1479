package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.StockOutRepository = (*StockOutRepository)(nil)

// StockOutRepository implementación en memoria de las salidas.
type StockOutRepository struct {
	s    *Store
	inTx bool
}

// NewStockOutRepository repositorio fuera de transacción.
func NewStockOutRepository(s *Store) *StockOutRepository {
	return &StockOutRepository{s: s}
}

func (r *StockOutRepository) Create(ctx context.Context, out *entity.StockOut) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.outs[out.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		if _, ok := r.s.stock[out.StockID]; !ok {
			err = domain.ErrNotFound
			return
		}
		r.s.outs[out.ID] = cloneOut(out)
	})
	return err
}

func (r *StockOutRepository) GetByID(ctx context.Context, id string) (*entity.StockOut, error) {
	var out *entity.StockOut
	r.s.do(r.inTx, func() { out = r.s.withStock(r.s.outs[id]) })
	return out, nil
}

// GetForUpdate no carga el stock: el llamador lo bloquea por separado.
func (r *StockOutRepository) GetForUpdate(ctx context.Context, id string) (*entity.StockOut, error) {
	var out *entity.StockOut
	r.s.do(r.inTx, func() { out = cloneOut(r.s.outs[id]) })
	return out, nil
}

func (r *StockOutRepository) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	var err error
	r.s.do(r.inTx, func() {
		so, ok := r.s.outs[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		so.Quantity = quantity
	})
	return err
}

func (r *StockOutRepository) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.StockOut, error) {
	out := make([]*entity.StockOut, 0)
	r.s.do(r.inTx, func() {
		for _, so := range r.s.outs {
			if so.AdminID == adminID {
				out = append(out, r.s.withStock(so))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// withStock copia la salida con su stock de origen. Requiere mu tomado.
func (s *Store) withStock(so *entity.StockOut) *entity.StockOut {
	if so == nil {
		return nil
	}
	c := cloneOut(so)
	c.Stock = cloneStock(s.stock[so.StockID])
	return c
}
