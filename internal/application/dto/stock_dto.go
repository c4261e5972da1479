package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/stock (stock-in).
type ReceiveStockRequest struct {
	SKU           string          `json:"sku"`
	ItemName      string          `json:"itemName"`
	CategoryID    string          `json:"categoryId,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Location      string          `json:"location,omitempty"`
	ReorderLevel  decimal.Decimal `json:"reorderLevel"`
	ReceivedDate  *time.Time      `json:"receivedDate,omitempty"`
}

// AdjustStockRequest body para POST /api/stock/:id/adjust. Delta puede ser negativo.
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta"`
	Note  string          `json:"note,omitempty"`
}

// UpdateUnitCostRequest body para PUT /api/stock/:id/unit-cost.
type UpdateUnitCostRequest struct {
	UnitCost decimal.Decimal `json:"unitCost"`
}

// StockItemResponse representación de una fila de stock.
type StockItemResponse struct {
	ID            string          `json:"id"`
	AdminID       string          `json:"adminId"`
	SKU           string          `json:"sku"`
	ItemName      string          `json:"itemName"`
	CategoryID    string          `json:"categoryId,omitempty"`
	Supplier      string          `json:"supplier,omitempty"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	Location      string          `json:"location,omitempty"`
	ReorderLevel  decimal.Decimal `json:"reorderLevel"`
	ReceivedDate  time.Time       `json:"receivedDate"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// StockItemListResponse listado paginado de stock.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// RecordStockOutRequest body para POST /api/stock-outs.
type RecordStockOutRequest struct {
	StockID       string          `json:"stockId"`
	TransactionID string          `json:"transactionId,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	SoldPrice     decimal.Decimal `json:"soldPrice"`
}

// StockOutResponse representación de una salida con su stock de origen.
type StockOutResponse struct {
	ID            string             `json:"id"`
	StockID       string             `json:"stockId"`
	TransactionID string             `json:"transactionId,omitempty"`
	EmployeeID    string             `json:"employeeId,omitempty"`
	Quantity      decimal.Decimal    `json:"quantity"`
	SoldPrice     decimal.Decimal    `json:"soldPrice"`
	CreatedAt     time.Time          `json:"createdAt"`
	Stock         *StockItemResponse `json:"stock,omitempty"`
}

// StockOutListResponse listado paginado de salidas.
type StockOutListResponse struct {
	Items []StockOutResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
