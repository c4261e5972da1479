package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
)

// StockHandler maneja stock-in, ajustes y lecturas del Quantity Store (protegido).
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Receive godoc
// @Summary      Registrar entrada de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "sku, itemName, quantity, unitCost"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.AdminID == "" {
		return unauthorized(c)
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Receive(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.StockItemListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.Context(), adminID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLowStock godoc
// @Summary      Stock en o bajo el nivel de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockItemResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) ListLowStock(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListLowStock(c.Context(), adminID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// GetBySKU godoc
// @Summary      Obtener stock por SKU
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/sku/{sku} [get]
func (h *StockHandler) GetBySKU(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetBySKU(c.Context(), adminID, c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener fila de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Stock ID"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), adminID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de cantidad (solo admin)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Stock ID"
// @Param        body  body  dto.AdjustStockRequest  true  "delta con signo"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.AdminID == "" {
		return unauthorized(c)
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Adjust(c.Context(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateUnitCost godoc
// @Summary      Cambiar costo unitario (solo admin)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Stock ID"
// @Param        body  body  dto.UpdateUnitCostRequest  true  "unitCost"
// @Success      200   {object}  dto.StockItemResponse
// @Router       /api/stock/{id}/unit-cost [put]
func (h *StockHandler) UpdateUnitCost(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.AdminID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateUnitCostRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateUnitCost(c.Context(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
