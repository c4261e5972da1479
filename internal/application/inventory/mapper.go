package inventory

import (
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

// ToStockItemResponse mapea la entidad al DTO de salida.
func ToStockItemResponse(item *entity.StockItem) *dto.StockItemResponse {
	if item == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:            item.ID,
		AdminID:       item.AdminID,
		SKU:           item.SKU,
		ItemName:      item.ItemName,
		CategoryID:    item.CategoryID,
		Supplier:      item.Supplier,
		UnitOfMeasure: item.UnitOfMeasure,
		Quantity:      item.Quantity,
		UnitCost:      item.UnitCost,
		TotalValue:    item.TotalValue,
		Location:      item.Location,
		ReorderLevel:  item.ReorderLevel,
		ReceivedDate:  item.ReceivedDate,
		UpdatedAt:     item.UpdatedAt,
	}
}

// ToStockOutResponse mapea una salida (y su stock si viene cargado).
func ToStockOutResponse(so *entity.StockOut) *dto.StockOutResponse {
	if so == nil {
		return nil
	}
	return &dto.StockOutResponse{
		ID:            so.ID,
		StockID:       so.StockID,
		TransactionID: so.TransactionID,
		EmployeeID:    so.EmployeeID,
		Quantity:      so.Quantity,
		SoldPrice:     so.SoldPrice,
		CreatedAt:     so.CreatedAt,
		Stock:         ToStockItemResponse(so.Stock),
	}
}
