package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mihigojordan/Abysphere-sub003/internal/application/dto"
	"github.com/Mihigojordan/Abysphere-sub003/internal/application/returns"
)

// SalesReturnHandler maneja las devoluciones de venta (protegido).
type SalesReturnHandler struct {
	uc       *returns.SalesReturnUseCase
	renderer returns.CreditNoteRenderer
}

// NewSalesReturnHandler construye el handler. renderer nil desactiva el PDF de nota crédito.
func NewSalesReturnHandler(uc *returns.SalesReturnUseCase, renderer returns.CreditNoteRenderer) *SalesReturnHandler {
	return &SalesReturnHandler{uc: uc, renderer: renderer}
}

// Create godoc
// @Summary      Registrar devolución de venta
// @Description  Cada ítem se procesa por separado: los rechazados vuelven en errors con su código
//
//	y no impiden aplicar los demás.
//
// @Tags         sales-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesReturnRequest  true  "transactionId, reason, items[{stockoutId, quantity}]"
// @Success      201   {object}  dto.CreateSalesReturnResponse
// @Failure      400   {object}  dto.ErrorResponse  "sin ítems o sin tenant"
// @Router       /api/sales-returns [post]
func (h *SalesReturnHandler) Create(c *fiber.Ctx) error {
	// Sin tenant el caso de uso responde ErrInvalidInput (400) antes de procesar líneas.
	actor := actorFrom(c)
	var in dto.CreateSalesReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	lines := make([]returns.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, returns.LineInput{StockOutID: it.StockOutID, Quantity: it.Quantity})
	}
	out, err := h.uc.Create(c.Context(), returns.CreateInput{
		Actor:         actor,
		TransactionID: in.TransactionID,
		Reason:        in.Reason,
		CreatedAt:     in.CreatedAt,
		Items:         lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out.Response())
}

// List godoc
// @Summary      Listar devoluciones del tenant
// @Tags         sales-returns
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse  "sin tenant"
// @Router       /api/sales-returns [get]
func (h *SalesReturnHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetAdminID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sales returns retrieved successfully", Data: list})
}

// GetByID godoc
// @Summary      Obtener devolución con sus ítems
// @Tags         sales-returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "SalesReturn ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-returns/{id} [get]
func (h *SalesReturnHandler) GetByID(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), adminID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Sales return retrieved successfully", Data: out})
}

// CreditNote godoc
// @Summary      Descargar PDF de la nota crédito
// @Tags         sales-returns
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "SalesReturn ID"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-returns/{id}/credit-note [get]
func (h *SalesReturnHandler) CreditNote(c *fiber.Ctx) error {
	adminID := GetAdminID(c)
	if adminID == "" {
		return unauthorized(c)
	}
	if h.renderer == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "generación de PDF no configurada"})
	}
	pdf, filename, err := h.uc.CreditNotePDF(c.Context(), h.renderer, adminID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
