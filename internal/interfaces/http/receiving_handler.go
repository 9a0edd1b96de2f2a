package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/receiving"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// ReceivingHandler maneja la recepción de órdenes de almacenamiento.
type ReceivingHandler struct {
	uc *receiving.ReceivingUseCase
}

// NewReceivingHandler construye el handler.
func NewReceivingHandler(uc *receiving.ReceivingUseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

// List godoc
// @Summary      Listar órdenes de almacenamiento (admin todas, receiver las propias)
// @Tags         storing-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/storing-orders [get]
func (h *ReceivingHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.Context(), Principal(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "órdenes de almacenamiento", out)
}

// Receive godoc
// @Summary      Recibir una orden de almacenamiento
// @Description  Compara factura, bill of entry, airway bill y cantidad. Si alguno difiere la orden queda en INSPECTION-FAILED y se responde 400.
// @Tags         storing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  true  "Valores declarados"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/storing-orders/{id}/receive [post]
func (h *ReceivingHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Receive(c.Context(), Principal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Status == entity.StoringOrderInspectionFailed {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSPECTION_FAILED", Message: out.DiscrepancyDetail})
	}
	return ok(c, "orden recibida", out)
}

// UpdateDiscrepancy godoc
// @Summary      Reemplazar el detalle de discrepancia de una orden fallida
// @Tags         storing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la orden"
// @Param        body  body  dto.UpdateDiscrepancyRequest  true  "Detalle"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/storing-orders/{id}/discrepancy [put]
func (h *ReceivingHandler) UpdateDiscrepancy(c *fiber.Ctx) error {
	var in dto.UpdateDiscrepancyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateDiscrepancy(c.Context(), Principal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "discrepancia actualizada", out)
}

// ValidityCheck godoc
// @Summary      Verificar documentos de una orden recibida y pasarla a TQ
// @Tags         storing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la orden"
// @Param        body  body  dto.ValidityCheckRequest  true  "Documentos"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/storing-orders/{id}/validity-check [post]
func (h *ReceivingHandler) ValidityCheck(c *fiber.Ctx) error {
	var in dto.ValidityCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ValidityCheck(c.Context(), Principal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "orden lista para TQ", out)
}
