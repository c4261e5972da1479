package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSalesReturnRequest body para POST /api/sales-returns.
type CreateSalesReturnRequest struct {
	TransactionID string                   `json:"transactionId"`
	Reason        string                   `json:"reason,omitempty"`
	CreatedAt     *time.Time               `json:"createdAt,omitempty"`
	Items         []SalesReturnLineRequest `json:"items"`
}

// SalesReturnLineRequest una línea devuelta.
type SalesReturnLineRequest struct {
	StockOutID string          `json:"stockoutId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// SalesReturnItemResponse ítem de devolución con la cadena stock-out -> stock.
type SalesReturnItemResponse struct {
	ID         string            `json:"id"`
	StockOutID string            `json:"stockoutId"`
	Quantity   decimal.Decimal   `json:"quantity"`
	CreatedAt  time.Time         `json:"createdAt"`
	StockOut   *StockOutResponse `json:"stockout,omitempty"`
}

// SalesReturnResponse devolución con sus ítems.
type SalesReturnResponse struct {
	ID            string                    `json:"id"`
	AdminID       string                    `json:"adminId"`
	TransactionID string                    `json:"transactionId"`
	CreditNoteID  string                    `json:"creditnoteId"`
	Reason        string                    `json:"reason,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
	Items         []SalesReturnItemResponse `json:"items"`
}

// ReturnSuccessDTO línea aplicada.
type ReturnSuccessDTO struct {
	StockOutID string `json:"stockoutId"`
	ItemID     string `json:"itemId"`
}

// ReturnErrorDTO línea rechazada. Code es estable; Error es legible.
type ReturnErrorDTO struct {
	StockOutID string `json:"stockoutId"`
	Code       string `json:"code"`
	Error      string `json:"error"`
}

// CreateSalesReturnResponse respuesta de POST /api/sales-returns.
type CreateSalesReturnResponse struct {
	Message       string              `json:"message"`
	TransactionID string              `json:"transactionId"`
	SalesReturn   SalesReturnResponse `json:"salesReturn"`
	Success       []ReturnSuccessDTO  `json:"success"`
	Errors        []ReturnErrorDTO    `json:"errors"`
}
