package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
	"github.com/jhoicas/wms-rfid-api/internal/application/packing"
	"github.com/jhoicas/wms-rfid-api/internal/application/picking"
	"github.com/jhoicas/wms-rfid-api/internal/application/quality"
	"github.com/jhoicas/wms-rfid-api/internal/application/receiving"
	"github.com/jhoicas/wms-rfid-api/internal/application/rfid"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ReceivingUC *receiving.ReceivingUseCase
	QualityUC   *quality.QualityUseCase
	BinningUC   *binning.BinningUseCase
	PickingUC   *picking.PickingUseCase
	PackingUC   *packing.PackingUseCase
	IngestUC    *rfid.IngestUseCase
	Metrics     *metrics.Metrics // opcional
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Todas las rutas de la API requieren X-API-Key o Bearer token
	api := app.Group("/api", AuthMiddleware(deps.AuthUC))

	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/api-keys", RequireRole(entity.RoleAdmin), authHandler.CreateAPIKey)
	api.Post("/auth/token", authHandler.Token)

	// Recepción
	receivingHandler := NewReceivingHandler(deps.ReceivingUC)
	orders := api.Group("/storing-orders")
	orders.Get("/", RequireRole(entity.RoleAdmin, entity.RoleReceiver), receivingHandler.List)
	orders.Post("/:id/receive", RequireRole(entity.RoleReceiver), receivingHandler.Receive)
	orders.Put("/:id/discrepancy", RequireRole(entity.RoleReceiver), receivingHandler.UpdateDiscrepancy)
	orders.Post("/:id/validity-check", RequireRole(entity.RoleReceiver, entity.RoleAdmin), receivingHandler.ValidityCheck)

	// Paquetes: inspección y ubicación
	packageHandler := NewPackageHandler(deps.QualityUC, deps.BinningUC)
	packages := api.Group("/packages")
	packages.Get("/", RequireRole(entity.RoleAdmin, entity.RoleTQEmployee), packageHandler.List)
	packages.Get("/:id", packageHandler.GetByID)
	packages.Post("/:id/tq/start", RequireRole(entity.RoleTQEmployee), packageHandler.StartTQ)
	packages.Post("/:id/tq/close", RequireRole(entity.RoleTQEmployee), packageHandler.CloseTQ)
	packages.Post("/:id/bin-allocation", RequireRole(entity.RoleBinner), packageHandler.AllocateBin)
	packages.Post("/:id/close-binning", RequireRole(entity.RoleBinner), packageHandler.CloseBinning)

	inventoryHandler := NewInventoryHandler(deps.BinningUC)
	api.Get("/inventory", RequireRole(entity.RoleAdmin), inventoryHandler.List)
	api.Get("/items/:rfid_id", RequireRole(entity.RoleAdmin, entity.RoleTQEmployee, entity.RoleBinner), inventoryHandler.GetItem)

	// Picking
	pickingHandler := NewPickingHandler(deps.PickingUC)
	api.Get("/pick-orders/next", RequireRole(entity.RolePicker), pickingHandler.Next)
	api.Post("/pick-orders/:id/close", RequireRole(entity.RolePicker), pickingHandler.Close)

	// Empaque y despacho
	packingHandler := NewPackingHandler(deps.PackingUC)
	slips := api.Group("/pick-slips")
	slips.Get("/", RequireRole(entity.RoleAdmin), pickingHandler.ListSlips)
	slips.Post("/start-packing", RequireRole(entity.RolePacker), packingHandler.Start)
	slips.Post("/:id/close-packing", RequireRole(entity.RolePacker), packingHandler.Close)
	slips.Post("/:id/dispatch", RequireRole(entity.RoleDispatcher), packingHandler.Dispatch)
	slips.Get("/:id/packing-list.pdf", RequireRole(entity.RolePacker, entity.RoleDispatcher, entity.RoleAdmin), packingHandler.PackingList)

	// Lecturas RFID
	rfidHandler := NewRFIDHandler(deps.IngestUC)
	api.Post("/rfid/tq-scans", RequireRole(entity.RoleScanner, entity.RoleAdmin), rfidHandler.TQScans)
	api.Post("/rfid/bin-scans", RequireRole(entity.RoleScanner, entity.RoleAdmin), rfidHandler.BinScans)
}
