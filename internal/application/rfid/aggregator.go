// Package rfid agrega las lecturas RFID de inspección y de binning sobre los
// contadores del paquete y publica las lecturas recibidas por HTTP.
package rfid

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/application/quality"
	"github.com/jhoicas/wms-rfid-api/internal/application/retry"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// Topics de lecturas RFID.
const (
	TopicTQScans  = "rfid.tq-scans"
	TopicBinScans = "rfid.bin-scans"
)

// Resultados registrados en métricas.
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Aggregator aplica cada lectura sobre el paquete con actualización condicional.
// Las lecturas que no pueden aplicarse se registran y se descartan; solo los
// fallos del store se devuelven para que el transporte reentregue el mensaje.
type Aggregator struct {
	packages  repository.PackageRepository
	items     repository.ItemRepository
	tx        ports.TxRunner
	dedupe    ports.Deduper
	metrics   ports.ScanMetrics
	retries   int
	log       *logger.Logger
	now       func() time.Time
}

// Option configura dependencias opcionales del agregador.
type Option func(*Aggregator)

// WithDeduper filtra entregas ya aplicadas antes de leer el store.
func WithDeduper(d ports.Deduper) Option { return func(a *Aggregator) { a.dedupe = d } }

// WithMetrics registra el resultado de cada lectura.
func WithMetrics(m ports.ScanMetrics) Option { return func(a *Aggregator) { a.metrics = m } }

// NewAggregator construye el agregador. tx confirma el paquete BINNED junto con
// su inventario.
func NewAggregator(
	packages repository.PackageRepository,
	items repository.ItemRepository,
	tx ports.TxRunner,
	retries int,
	log *logger.Logger,
	opts ...Option,
) *Aggregator {
	a := &Aggregator{
		packages:  packages,
		items:     items,
		tx:        tx,
		metrics:   ports.NopScanMetrics{},
		retries:   retries,
		log:       log.Component("rfid-aggregator"),
		now:       time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// HandleTQScan procesa un mensaje del topic rfid.tq-scans.
func (a *Aggregator) HandleTQScan(ctx context.Context, raw []byte) error {
	var ev dto.TQScanEvent
	if !a.decode(TopicTQScans, raw, &ev) {
		return nil
	}
	at := a.at(ev.TQDate.Time)
	return a.process(ctx, TopicTQScans, ev.PackageID, ev.RFIDID, func(pkg *entity.Package) (*entity.Package, bool, error) {
		next, err := lifecycle.ApplyTQScan(pkg, ev.RFIDID, at)
		return next, false, err
	}, func(pkg *entity.Package) *entity.Item {
		return &entity.Item{
			RFIDID:    ev.RFIDID,
			PackageID: pkg.ID,
			Status:    entity.PackageReadyForBinAllocation,
			TQDate:    &at,
			UpdatedAt: a.now(),
		}
	})
}

// HandleBinScan procesa un mensaje del topic rfid.bin-scans. Si la lectura
// completa la asignación, el inventario se confirma con el estado igual que en
// CloseBinning.
func (a *Aggregator) HandleBinScan(ctx context.Context, raw []byte) error {
	var ev dto.BinScanEvent
	if !a.decode(TopicBinScans, raw, &ev) {
		return nil
	}
	at := a.at(ev.BinnedDate.Time)
	return a.process(ctx, TopicBinScans, ev.PackageID, ev.RFIDID, func(pkg *entity.Package) (*entity.Package, bool, error) {
		return lifecycle.ApplyBinScan(pkg, ev.RFIDID, ev.BinID, at)
	}, func(pkg *entity.Package) *entity.Item {
		return &entity.Item{
			RFIDID:     ev.RFIDID,
			PackageID:  pkg.ID,
			Status:     entity.PackageBinned,
			BinID:      ev.BinID,
			BinnedDate: &at,
			UpdatedAt:  a.now(),
		}
	})
}

type applyFn func(*entity.Package) (*entity.Package, bool, error)

func (a *Aggregator) process(ctx context.Context, topic, packageID, rfidID string, apply applyFn, item func(*entity.Package) *entity.Item) error {
	log := a.log.With().Str("topic", topic).Str("package_id", packageID).Str("rfid_id", rfidID).Logger()

	key := topic + ":" + packageID + ":" + rfidID
	if a.dedupe != nil {
		seen, err := a.dedupe.Seen(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("dedupe no disponible, se procesa la lectura")
		case seen:
			log.Debug().Msg("lectura repetida descartada por dedupe")
			a.metrics.ScanProcessed(topic, OutcomeDuplicate)
			return nil
		}
	}

	var completed bool
	pkg, _, err := retry.Mutate(ctx, a.retries,
		func(ctx context.Context) (*entity.Package, error) {
			return quality.LoadPackage(ctx, a.packages, packageID)
		},
		func(cur *entity.Package) (*entity.Package, error) {
			next, done, err := apply(cur)
			completed = done
			return next, err
		},
		binning.SaveWithInventory(a.tx, a.packages),
	)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Debug().Msg("etiqueta ya contada")
		a.markSeen(ctx, key)
		a.metrics.ScanProcessed(topic, OutcomeDuplicate)
		return nil
	case err != nil && skippable(err):
		log.Warn().Str("reason", err.Error()).Msg("lectura rechazada")
		a.metrics.ScanProcessed(topic, OutcomeRejected)
		return nil
	case err != nil:
		a.metrics.ScanProcessed(topic, OutcomeError)
		return err
	}
	a.markSeen(ctx, key)

	if err := a.items.Upsert(ctx, item(pkg)); err != nil {
		log.Error().Err(err).Msg("no se pudo actualizar el item")
	}
	if completed {
		log.Info().Interface("bin_allocation", pkg.BinAllocation).Msg("paquete completó binning por lecturas")
	}
	log.Debug().Str("status", pkg.Status).Msg("lectura aplicada")
	a.metrics.ScanProcessed(topic, OutcomeApplied)
	return nil
}

// markSeen registra la lectura ya contada en el store. Un fallo solo cuesta
// una lectura extra del store en la próxima reentrega.
func (a *Aggregator) markSeen(ctx context.Context, key string) {
	if a.dedupe == nil {
		return
	}
	if err := a.dedupe.Mark(context.WithoutCancel(ctx), key); err != nil {
		a.log.Warn().Err(err).Str("key", key).Msg("no se pudo marcar la lectura en dedupe")
	}
}

func (a *Aggregator) decode(topic string, raw []byte, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		a.log.Warn().Str("topic", topic).Err(err).Msg("evento RFID mal formado")
		a.metrics.ScanProcessed(topic, OutcomeMalformed)
		return false
	}
	if err := dto.Validate(v); err != nil {
		a.log.Warn().Str("topic", topic).Err(err).Msg("evento RFID incompleto")
		a.metrics.ScanProcessed(topic, OutcomeMalformed)
		return false
	}
	return true
}

func (a *Aggregator) at(t time.Time) time.Time {
	if t.IsZero() {
		return a.now()
	}
	return t
}

// skippable indica si el error es una violación de invariante o una referencia
// inexistente: el mensaje se confirma sin reintento.
func skippable(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrPrecondition) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrForbidden)
}
