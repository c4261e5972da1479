package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockOut registra una salida (venta o despacho) contra una fila de stock-in.
// Quantity es la cantidad aún no devuelta; las devoluciones la decrementan.
type StockOut struct {
	ID            string
	AdminID       string
	StockID       string
	TransactionID string
	EmployeeID    string
	Quantity      decimal.Decimal
	SoldPrice     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Stock *StockItem // carga ansiosa en lecturas
}
