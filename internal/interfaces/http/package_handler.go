package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/quality"
)

// PackageHandler maneja inspección (TQ) y ubicación en bins de paquetes.
type PackageHandler struct {
	quality *quality.QualityUseCase
	binning *binning.BinningUseCase
}

// NewPackageHandler construye el handler.
func NewPackageHandler(q *quality.QualityUseCase, b *binning.BinningUseCase) *PackageHandler {
	return &PackageHandler{quality: q, binning: b}
}

// List godoc
// @Summary      Listar paquetes (admin todos, tq_employee los propios)
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/packages [get]
func (h *PackageHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return invalidBody(c)
	}
	out, err := h.quality.List(c.Context(), Principal(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "paquetes", out)
}

// GetByID godoc
// @Summary      Obtener paquete por ID
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packages/{id} [get]
func (h *PackageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.quality.Get(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "paquete", out)
}

// StartTQ POST /api/packages/:id/tq/start
func (h *PackageHandler) StartTQ(c *fiber.Ctx) error {
	out, err := h.quality.StartTQ(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "inspección iniciada", out)
}

// CloseTQ godoc
// @Summary      Registrar el resultado de la inspección (pass | fail)
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del paquete"
// @Param        body  body  dto.QualityCheckRequest  true  "flag y descripción"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/tq/close [post]
func (h *PackageHandler) CloseTQ(c *fiber.Ctx) error {
	var in dto.QualityCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.quality.CloseTQ(c.Context(), Principal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "inspección cerrada", out)
}

// AllocateBin godoc
// @Summary      Asignar bins al paquete según volumen disponible
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/bin-allocation [post]
func (h *PackageHandler) AllocateBin(c *fiber.Ctx) error {
	out, err := h.binning.Allocate(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "bins asignados", out)
}

// CloseBinning POST /api/packages/:id/close-binning
func (h *PackageHandler) CloseBinning(c *fiber.Ctx) error {
	out, err := h.binning.CloseBinning(c.Context(), Principal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, "paquete ubicado", out)
}
