package stock

import (
	"github.com/shopspring/decimal"

	"github.com/Mihigojordan/Abysphere-sub003/internal/domain"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// Scale decimales con que se persisten cantidades, costos y precios (NUMERIC(18,4)).
// TotalValue se guarda con 2*Scale para que quantity × unitCost sea exacto.
const Scale = 4

// Round lleva un valor de entrada a Scale decimales antes de usarlo o guardarlo.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ApplyDelta suma delta (positivo: entrada/devolución, negativo: venta) a la cantidad actual.
// Falla con ErrInvalidQuantity si el resultado sería negativo.
func ApplyDelta(current, delta decimal.Decimal) (decimal.Decimal, error) {
	next := current.Add(delta)
	if next.IsNegative() {
		return current, domain.ErrInvalidQuantity
	}
	return next, nil
}

// Revalue recalcula TotalValue con el costo unitario vigente.
// No hay capas de costo: un cambio de costo revalúa todo el saldo.
func Revalue(item *entity.StockItem) {
	item.Quantity = Round(item.Quantity)
	item.UnitCost = Round(item.UnitCost)
	item.TotalValue = item.Quantity.Mul(item.UnitCost)
}

// Balanced verifica la aritmética de una entrada del ledger según su tipo.
func Balanced(movementType string, before, change, after decimal.Decimal) bool {
	switch movementType {
	case entity.MovementTypeIN, entity.MovementTypeADJUSTMENT:
		return after.Equal(before.Add(change))
	case entity.MovementTypeOUT:
		return after.Equal(before.Sub(change))
	}
	return false
}
