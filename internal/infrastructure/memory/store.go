// Package memory implementa los repositorios en memoria. Se usa con DB_DRIVER=memory
// y en los tests de casos de uso; respeta el mismo contrato que postgres
// (versión CAS, ledger append-only, (nil, nil) en no encontrado).
package memory

import (
	"context"
	"sync"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda el estado compartido por todos los repositorios.
// Las transacciones se serializan con mu; fuera de una tx cada llamada toma mu por su cuenta.
type Store struct {
	mu sync.Mutex
	state
}

type state struct {
	stock       map[string]*entity.StockItem
	outs        map[string]*entity.StockOut
	returns     map[string]*entity.SalesReturn
	returnItems []*entity.SalesReturnItem
	history     []*entity.StockHistory
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: state{
		stock:   make(map[string]*entity.StockItem),
		outs:    make(map[string]*entity.StockOut),
		returns: make(map[string]*entity.SalesReturn),
	}}
}

// Repos devuelve repositorios que operan fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) inventory.Repos {
	return inventory.Repos{
		Stock:    &StockItemRepository{s: s, inTx: inTx},
		StockOut: &StockOutRepository{s: s, inTx: inTx},
		Returns:  &SalesReturnRepository{s: s, inTx: inTx},
		History:  &StockHistoryRepository{s: s, inTx: inTx},
	}
}

// Run ejecuta fn con acceso exclusivo al almacén. Si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(s.repos(true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// do ejecuta fn bajo mu salvo que el llamador ya esté dentro de Run.
func (s *Store) do(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func (st state) clone() state {
	out := state{
		stock:       make(map[string]*entity.StockItem, len(st.stock)),
		outs:        make(map[string]*entity.StockOut, len(st.outs)),
		returns:     make(map[string]*entity.SalesReturn, len(st.returns)),
		returnItems: make([]*entity.SalesReturnItem, 0, len(st.returnItems)),
		history:     make([]*entity.StockHistory, 0, len(st.history)),
	}
	for k, v := range st.stock {
		out.stock[k] = cloneStock(v)
	}
	for k, v := range st.outs {
		out.outs[k] = cloneOut(v)
	}
	for k, v := range st.returns {
		out.returns[k] = cloneReturn(v)
	}
	for _, v := range st.returnItems {
		c := *v
		out.returnItems = append(out.returnItems, &c)
	}
	// el ledger es append-only: las entradas no mutan, basta copiar el slice
	out.history = append(out.history, st.history...)
	return out
}

func cloneStock(in *entity.StockItem) *entity.StockItem {
	if in == nil {
		return nil
	}
	c := *in
	return &c
}

func cloneOut(in *entity.StockOut) *entity.StockOut {
	if in == nil {
		return nil
	}
	c := *in
	c.Stock = nil
	return &c
}

func cloneReturn(in *entity.SalesReturn) *entity.SalesReturn {
	c := *in
	c.Items = nil
	return &c
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
