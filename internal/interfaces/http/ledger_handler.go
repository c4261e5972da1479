package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
)

// LedgerHandler consultas del ledger de movimientos (protegido).
type LedgerHandler struct {
	uc *inventory.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *inventory.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// List godoc
// @Summary      Movimientos de stock
// @Description  Filtra por stock_id, source_id o type (en ese orden de prioridad). Más recientes primero.
// @Tags         stock-history
// @Security     Bearer
// @Produce      json
// @Param        stock_id   query  string  false  "Stock ID"
// @Param        source_id  query  string  false  "Documento origen (p. ej. CR-NOTE-...)"
// @Param        type       query  string  false  "IN | OUT | ADJUSTMENT"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-history [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}

	var (
		list []dto.StockHistoryResponse
		err  error
	)
	switch {
	case c.Query("stock_id") != "":
		list, err = h.uc.ListByStock(c.Context(), adminID, c.Query("stock_id"), page)
	case c.Query("source_id") != "":
		list, err = h.uc.ListBySource(c.Context(), adminID, c.Query("source_id"), page)
	case c.Query("type") != "":
		list, err = h.uc.ListByType(c.Context(), adminID, c.Query("type"), page)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "se requiere stock_id, source_id o type",
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Stock history retrieved successfully", Data: list})
}
