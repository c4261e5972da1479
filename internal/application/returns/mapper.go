package returns

import (
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
	"github.com/Mihigojordan/Abysphere-sub003/internal/domain/entity"
)

const (
	msgRecorded     = "Sales return recorded successfully"
	msgNoneApplied  = "Sales return recorded but no items were applied"
	msgPartialApply = "Sales return recorded with some rejected items"
)

// ToSalesReturnResponse mapea la devolución con la cadena ítem -> stock-out -> stock.
func ToSalesReturnResponse(sr *entity.SalesReturn) dto.SalesReturnResponse {
	items := make([]dto.SalesReturnItemResponse, 0, len(sr.Items))
	for _, it := range sr.Items {
		items = append(items, dto.SalesReturnItemResponse{
			ID:         it.ID,
			StockOutID: it.StockOutID,
			Quantity:   it.Quantity,
			CreatedAt:  it.CreatedAt,
			StockOut:   inventory.ToStockOutResponse(it.StockOut),
		})
	}
	return dto.SalesReturnResponse{
		ID:            sr.ID,
		AdminID:       sr.AdminID,
		TransactionID: sr.TransactionID,
		CreditNoteID:  sr.CreditNoteID,
		Reason:        sr.Reason,
		CreatedAt:     sr.CreatedAt,
		Items:         items,
	}
}

// Response arma el cuerpo de POST /api/sales-returns.
func (o *Outcome) Response() dto.CreateSalesReturnResponse {
	resp := dto.CreateSalesReturnResponse{
		TransactionID: o.SalesReturn.TransactionID,
		SalesReturn:   ToSalesReturnResponse(o.SalesReturn),
		Success:       make([]dto.ReturnSuccessDTO, 0, len(o.Items)),
		Errors:        make([]dto.ReturnErrorDTO, 0),
	}
	for _, it := range o.Items {
		if it.Status == StatusApplied {
			resp.Success = append(resp.Success, dto.ReturnSuccessDTO{StockOutID: it.StockOutID, ItemID: it.ItemID})
			continue
		}
		resp.Errors = append(resp.Errors, dto.ReturnErrorDTO{
			StockOutID: it.StockOutID,
			Code:       string(it.Reason),
			Error:      it.Message,
		})
	}
	switch {
	case len(resp.Success) == 0:
		resp.Message = msgNoneApplied
	case len(resp.Errors) > 0:
		resp.Message = msgPartialApply
	default:
		resp.Message = msgRecorded
	}
	return resp
}
