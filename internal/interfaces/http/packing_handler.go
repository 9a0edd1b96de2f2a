package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/packing"
)

// PackingHandler maneja empaque y despacho de pick slips.
type PackingHandler struct {
	uc *packing.PackingUseCase
}

// NewPackingHandler construye el handler.
func NewPackingHandler(uc *packing.PackingUseCase) *PackingHandler {
	return &PackingHandler{uc: uc}
}

// Start godoc
// @Summary      Tomar el pick slip más antiguo listo para empaque en la zona
// @Tags         pick-slips
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartPackingRequest  true  "Zona de empaque"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-slips/start-packing [post]
func (h *PackingHandler) Start(c *fiber.Ctx) error {
	var in dto.StartPackingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.StartPacking(c.Context(), Principal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "empaque iniciado", out)
}

// Close POST /api/pick-slips/:id/close-packing
func (h *PackingHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.ClosePacking(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "empaque cerrado", out)
}

// Dispatch POST /api/pick-slips/:id/dispatch
func (h *PackingHandler) Dispatch(c *fiber.Ctx) error {
	out, err := h.uc.Dispatch(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "pick slip despachado", out)
}

// PackingList godoc
// @Summary      Descargar el packing list en PDF
// @Tags         pick-slips
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pick slip"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-slips/{id}/packing-list.pdf [get]
func (h *PackingHandler) PackingList(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.PackingList(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
