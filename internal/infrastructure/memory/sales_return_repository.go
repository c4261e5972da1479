package memory

import (
	"context"
	"sort"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/repository"
)

var _ repository.SalesReturnRepository = (*SalesReturnRepository)(nil)

// SalesReturnRepository implementación en memoria de devoluciones.
type SalesReturnRepository struct {
	s    *Store
	inTx bool
}

// NewSalesReturnRepository repositorio fuera de transacción.
func NewSalesReturnRepository(s *Store) *SalesReturnRepository {
	return &SalesReturnRepository{s: s}
}

func (r *SalesReturnRepository) Create(ctx context.Context, sr *entity.SalesReturn) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.returns[sr.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		for _, other := range r.s.returns {
			if other.CreditNoteID == sr.CreditNoteID {
				err = domain.ErrDuplicate
				return
			}
		}
		r.s.returns[sr.ID] = cloneReturn(sr)
	})
	return err
}

func (r *SalesReturnRepository) CreateItem(ctx context.Context, item *entity.SalesReturnItem) error {
	var err error
	r.s.do(r.inTx, func() {
		if _, ok := r.s.returns[item.SalesReturnID]; !ok {
			err = domain.ErrNotFound
			return
		}
		if _, ok := r.s.outs[item.StockOutID]; !ok {
			err = domain.ErrNotFound
			return
		}
		c := *item
		c.StockOut = nil
		r.s.returnItems = append(r.s.returnItems, &c)
	})
	return err
}

func (r *SalesReturnRepository) GetByID(ctx context.Context, id string) (*entity.SalesReturn, error) {
	var out *entity.SalesReturn
	r.s.do(r.inTx, func() {
		if sr, ok := r.s.returns[id]; ok {
			out = r.s.loadReturn(sr)
		}
	})
	return out, nil
}

func (r *SalesReturnRepository) ListByAdmin(ctx context.Context, adminID string) ([]*entity.SalesReturn, error) {
	out := make([]*entity.SalesReturn, 0)
	r.s.do(r.inTx, func() {
		for _, sr := range r.s.returns {
			if sr.AdminID == adminID {
				out = append(out, r.s.loadReturn(sr))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// loadReturn copia la devolución con ítems -> stock-out -> stock. Requiere mu tomado.
func (s *Store) loadReturn(sr *entity.SalesReturn) *entity.SalesReturn {
	c := cloneReturn(sr)
	for _, it := range s.returnItems {
		if it.SalesReturnID != sr.ID {
			continue
		}
		item := *it
		item.StockOut = s.withStock(s.outs[it.StockOutID])
		c.Items = append(c.Items, item)
	}
	return c
}
