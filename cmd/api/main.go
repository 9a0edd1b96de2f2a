package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
	"github.com/jhoicas/wms-rfid-api/internal/application/packing"
	"github.com/jhoicas/wms-rfid-api/internal/application/picking"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/application/quality"
	"github.com/jhoicas/wms-rfid-api/internal/application/receiving"
	"github.com/jhoicas/wms-rfid-api/internal/application/rfid"
	infrakafka "github.com/jhoicas/wms-rfid-api/internal/infrastructure/kafka"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/wms-rfid-api/internal/infrastructure/pdf"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/wms-rfid-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/wms-rfid-api/internal/interfaces/http"
	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	storingOrderRepo := postgres.NewStoringOrderRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	binRepo := postgres.NewBinRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	pickOrderRepo := postgres.NewPickOrderRepository(pool)
	pickSlipRepo := postgres.NewPickSlipRepository(pool)
	apiKeyRepo := postgres.NewAPIKeyRepository(pool)

	// Lock de asignación: Redis si está configurado; en memoria solo sirve con una réplica.
	var locker ports.Locker
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infraredis.NewLocker(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: lock de asignación en memoria (una sola réplica)")
		locker = memory.NewLocker()
	}

	producer := infrakafka.NewScanProducer(cfg.Kafka, log)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar productor Kafka")
		}
	}()

	retries := cfg.Store.ConflictRetries
	authUC := auth.NewAuthUseCase(apiKeyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	receivingUC := receiving.NewReceivingUseCase(storingOrderRepo, packageRepo, retries, log)
	qualityUC := quality.NewQualityUseCase(packageRepo, retries, log)
	binningUC := binning.NewBinningUseCase(binning.Repos{
		Packages:  packageRepo,
		Products:  productRepo,
		Bins:      binRepo,
		Inventory: inventoryRepo,
		Items:     itemRepo,
		Tx:        postgres.NewTxRunner(pool),
	}, locker, cfg.Allocation.LockTTL, retries, log)
	pickingUC := picking.NewPickingUseCase(pickOrderRepo, pickSlipRepo, retries, log)

	// PDF: packing list imprimible del pick slip
	pdfGenerator := infrapdf.NewPackingListGenerator(cfg.App.Name)
	packingUC := packing.NewPackingUseCase(pickSlipRepo, pickOrderRepo, pdfGenerator, retries, log)
	ingestUC := rfid.NewIngestUseCase(producer, log)

	m := metrics.New("api")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "WMS RFID API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ReceivingUC: receivingUC,
		QualityUC:   qualityUC,
		BinningUC:   binningUC,
		PickingUC:   pickingUC,
		PackingUC:   packingUC,
		IngestUC:    ingestUC,
		Metrics:     m,
		ServiceName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
