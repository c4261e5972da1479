package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
)

// Origen del movimiento.
const (
	SourceTypeReceipt = "RECEIPT"
	SourceTypeSale    = "SALE"
	SourceTypeManual  = "MANUAL"
	SourceTypeCost    = "COST_UPDATE"
)

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}

// StockHistory es una entrada inmutable del ledger de movimientos.
//
//	IN:         QtyAfter = QtyBefore + QtyChange
//	OUT:        QtyAfter = QtyBefore - QtyChange
//	ADJUSTMENT: QtyAfter = QtyBefore + QtyChange (QtyChange con signo)
type StockHistory struct {
	ID              string
	AdminID         string
	StockID         string
	MovementType    string
	SourceType      string
	SourceID        string // documento que originó el movimiento (nota crédito, transacción...)
	QtyBefore       decimal.Decimal
	QtyChange       decimal.Decimal
	QtyAfter        decimal.Decimal
	UnitPrice       decimal.Decimal
	Note            string
	ActorAdminID    string
	ActorEmployeeID string
	CreatedAt       time.Time
}
