package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/wms-rfid-api/internal/application/rfid"
	infrakafka "github.com/jhoicas/wms-rfid-api/internal/infrastructure/kafka"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/wms-rfid-api/internal/infrastructure/redis"
	"github.com/jhoicas/wms-rfid-api/pkg/config"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "rfid-consumer",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New("rfid-consumer")
	opts := []rfid.Option{rfid.WithMetrics(m)}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		opts = append(opts, rfid.WithDeduper(infraredis.NewDeduper(rdb, cfg.Redis.DedupeTTL)))
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sin filtro de duplicados previo al store")
	}

	agg := rfid.NewAggregator(
		postgres.NewPackageRepository(pool),
		postgres.NewItemRepository(pool),
		postgres.NewTxRunner(pool),
		cfg.Store.ConflictRetries,
		log,
		opts...,
	)

	consumer := infrakafka.NewConsumer(cfg.Kafka, log)
	consumer.Subscribe(cfg.Kafka.TQTopic, agg.HandleTQScan)
	consumer.Subscribe(cfg.Kafka.BinTopic, agg.HandleBinScan)

	// Métricas y health en el puerto HTTP del worker
	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-rfid-consumer", DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "rfid-consumer"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor de métricas finalizado")
		}
	}()

	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("group_id", cfg.Kafka.GroupID).
		Str("tq_topic", cfg.Kafka.TQTopic).
		Str("bin_topic", cfg.Kafka.BinTopic).
		Msg("consumidor RFID iniciado")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumidor RFID")
	}

	log.Info().Msg("señal de apagado recibida, cerrando consumidor...")
	if err := consumer.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar lectores Kafka")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor de métricas")
	}
	log.Info().Msg("consumidor detenido")
}
