package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem es una fila de stock-in: cantidad disponible y costo unitario de un SKU
// para un tenant (admin). TotalValue = Quantity * UnitCost en todo estado confirmado.
type StockItem struct {
	ID            string
	AdminID       string
	SKU           string // único por admin
	ItemName      string
	CategoryID    string
	Supplier      string
	UnitOfMeasure string
	Quantity      decimal.Decimal // nunca negativa
	UnitCost      decimal.Decimal
	TotalValue    decimal.Decimal
	Location      string // ubicación en bodega
	ReorderLevel  decimal.Decimal
	ReceivedDate  time.Time
	Version       int64 // control optimista; lo incrementa el repositorio en cada Update
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
