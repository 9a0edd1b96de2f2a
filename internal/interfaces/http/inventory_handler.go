package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
)

// InventoryHandler expone el inventario acumulado por bin y producto y la
// consulta por etiqueta RFID.
type InventoryHandler struct {
	uc *binning.BinningUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *binning.BinningUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List godoc
// @Summary      Listar inventario por bin y producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ListInventory(c.Context(), Principal(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "inventario", out)
}

// GetItem godoc
// @Summary      Último estado conocido de una etiqueta RFID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        rfid_id  path  string  true  "Etiqueta RFID"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{rfid_id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.Context(), Principal(c), c.Params("rfid_id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "etiqueta", out)
}
