package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockHistoryResponse entrada del ledger de movimientos.
type StockHistoryResponse struct {
	ID              string          `json:"id"`
	StockID         string          `json:"stockId"`
	MovementType    string          `json:"movementType"`
	SourceType      string          `json:"sourceType"`
	SourceID        string          `json:"sourceId,omitempty"`
	QtyBefore       decimal.Decimal `json:"qtyBefore"`
	QtyChange       decimal.Decimal `json:"qtyChange"`
	QtyAfter        decimal.Decimal `json:"qtyAfter"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Note            string          `json:"note,omitempty"`
	ActorAdminID    string          `json:"adminId,omitempty"`
	ActorEmployeeID string          `json:"employeeId,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
