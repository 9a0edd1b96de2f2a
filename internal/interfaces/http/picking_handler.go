package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/picking"
)

// PickingHandler maneja las órdenes de picking.
type PickingHandler struct {
	uc *picking.PickingUseCase
}

// NewPickingHandler construye el handler.
func NewPickingHandler(uc *picking.PickingUseCase) *PickingHandler {
	return &PickingHandler{uc: uc}
}

// Next godoc
// @Summary      Siguiente orden de picking del picker (la más antigua)
// @Tags         pick-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-orders/next [get]
func (h *PickingHandler) Next(c *fiber.Ctx) error {
	out, err := h.uc.NextPickOrder(c.Context(), Principal(c))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "siguiente orden de picking", out)
}

// Close godoc
// @Summary      Cerrar una orden de picking
// @Description  Si es la última abierta del pick slip, el slip pasa a READY-FOR-PACKING.
// @Tags         pick-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pick-orders/{id}/close [post]
func (h *PickingHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.ClosePickOrder(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "orden de picking cerrada", out)
}

// ListSlips GET /api/pick-slips
func (h *PickingHandler) ListSlips(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ListPickSlips(c.Context(), Principal(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "pick slips", out)
}
