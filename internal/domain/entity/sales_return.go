package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReturn agrupa las líneas devueltas de una transacción bajo una nota crédito.
// No se modifica después de crearse; solo se le agregan ítems.
type SalesReturn struct {
	ID            string
	AdminID       string
	TransactionID string
	CreditNoteID  string // CR-NOTE-<sufijo>
	Reason        string
	CreatedAt     time.Time

	Items []SalesReturnItem
}

// SalesReturnItem vincula una devolución con el stock-out que revierte.
type SalesReturnItem struct {
	ID            string
	SalesReturnID string
	StockOutID    string
	Quantity      decimal.Decimal
	CreatedAt     time.Time

	StockOut *StockOut
}

// TotalQuantity suma las cantidades devueltas.
func (r *SalesReturn) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Quantity)
	}
	return total
}
