package rfid

import (
	"context"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// IngestUseCase publica en la cola las lecturas recibidas de los lectores por HTTP.
type IngestUseCase struct {
	publisher ports.ScanPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewIngestUseCase construye el caso de uso de ingesta.
func NewIngestUseCase(publisher ports.ScanPublisher, log *logger.Logger) *IngestUseCase {
	return &IngestUseCase{publisher: publisher, log: log.Component("rfid-ingest"), now: time.Now}
}

// PublishTQScans valida y publica un lote de lecturas de inspección.
func (uc *IngestUseCase) PublishTQScans(ctx context.Context, p entity.Principal, in dto.TQScanBatchRequest) (int, error) {
	if err := auth.Require(p, entity.RoleScanner, entity.RoleAdmin); err != nil {
		return 0, err
	}
	if err := dto.Validate(in); err != nil {
		return 0, err
	}
	now := uc.now()
	for i := range in.Scans {
		if in.Scans[i].TQDate.IsZero() {
			in.Scans[i].TQDate = dto.NewScanTime(now)
		}
	}
	if err := uc.publisher.PublishTQScans(ctx, in.Scans); err != nil {
		return 0, err
	}
	uc.log.Debug().Int("scans", len(in.Scans)).Str("employee_id", p.EmployeeID).Msg("lecturas TQ publicadas")
	return len(in.Scans), nil
}

// PublishBinScans valida y publica un lote de lecturas de binning.
func (uc *IngestUseCase) PublishBinScans(ctx context.Context, p entity.Principal, in dto.BinScanBatchRequest) (int, error) {
	if err := auth.Require(p, entity.RoleScanner, entity.RoleAdmin); err != nil {
		return 0, err
	}
	if err := dto.Validate(in); err != nil {
		return 0, err
	}
	now := uc.now()
	for i := range in.Scans {
		if in.Scans[i].BinnedDate.IsZero() {
			in.Scans[i].BinnedDate = dto.NewScanTime(now)
		}
	}
	if err := uc.publisher.PublishBinScans(ctx, in.Scans); err != nil {
		return 0, err
	}
	uc.log.Debug().Int("scans", len(in.Scans)).Str("employee_id", p.EmployeeID).Msg("lecturas de bin publicadas")
	return len(in.Scans), nil
}
