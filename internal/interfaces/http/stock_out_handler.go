package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/inventory"
)

// StockOutHandler maneja las salidas de stock (protegido).
type StockOutHandler struct {
	uc *inventory.StockOutUseCase
}

// NewStockOutHandler construye el handler.
func NewStockOutHandler(uc *inventory.StockOutUseCase) *StockOutHandler {
	return &StockOutHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar salida (venta/despacho)
// @Tags         stock-outs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordStockOutRequest  true  "stockId, quantity, soldPrice"
// @Success      201   {object}  dto.StockOutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-outs [post]
func (h *StockOutHandler) Record(c *fiber.Ctx) error {
	actor := actorFrom(c)
	if actor.AdminID == "" {
		return unauthorized(c)
	}
	var in dto.RecordStockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Record(c.Context(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar salidas
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockOutListResponse
// @Router       /api/stock-outs [get]
func (h *StockOutHandler) List(c *fiber.Ctx) error {
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

// GetByID godoc
// @Summary      Obtener salida
// @Tags         stock-outs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "StockOut ID"
// @Success      200  {object}  dto.StockOutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-outs/{id} [get]
func (h *StockOutHandler) GetByID(c *fiber.Ctx) error {
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
