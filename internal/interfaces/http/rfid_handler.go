package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/rfid"
)

// RFIDHandler recibe lotes de lecturas RFID y los publica en la cola.
type RFIDHandler struct {
	uc *rfid.IngestUseCase
}

// NewRFIDHandler construye el handler.
func NewRFIDHandler(uc *rfid.IngestUseCase) *RFIDHandler {
	return &RFIDHandler{uc: uc}
}

// TQScans godoc
// @Summary      Publicar lecturas de la estación de inspección
// @Tags         rfid
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TQScanBatchRequest  true  "Lecturas"
// @Success      202   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/rfid/tq-scans [post]
func (h *RFIDHandler) TQScans(c *fiber.Ctx) error {
	var in dto.TQScanBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.PublishTQScans(c.Context(), Principal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{Message: "lecturas publicadas", Data: fiber.Map{"published": n}})
}

// BinScans godoc
// @Summary      Publicar lecturas de ubicación en bins
// @Tags         rfid
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BinScanBatchRequest  true  "Lecturas"
// @Success      202   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/rfid/bin-scans [post]
func (h *RFIDHandler) BinScans(c *fiber.Ctx) error {
	var in dto.BinScanBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	n, err := h.uc.PublishBinScans(c.Context(), Principal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.SuccessResponse{Message: "lecturas publicadas", Data: fiber.Map{"published": n}})
}
