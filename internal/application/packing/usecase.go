// Package packing implementa el empaque y despacho de pick slips.
package packing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/application/retry"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// candidates es cuántos slips listos se intentan tomar por llamada.
const candidates = 10

// PackingUseCase orquesta StartPacking, ClosePacking, Dispatch y el packing list.
type PackingUseCase struct {
	slips    repository.PickSlipRepository
	orders   repository.PickOrderRepository
	renderer ports.PackingListRenderer
	retries  int
	log      *logger.Logger
	now      func() time.Time
}

// NewPackingUseCase construye el caso de uso de empaque.
func NewPackingUseCase(
	slips repository.PickSlipRepository,
	orders repository.PickOrderRepository,
	renderer ports.PackingListRenderer,
	retries int,
	log *logger.Logger,
) *PackingUseCase {
	return &PackingUseCase{
		slips:    slips,
		orders:   orders,
		renderer: renderer,
		retries:  retries,
		log:      log.Component("packing"),
		now:      time.Now,
	}
}

// StartPacking toma el slip READY-FOR-PACKING más antiguo de la zona. Cada
// candidato se intenta con una sola actualización condicional; si otro packer
// lo ganó se pasa al siguiente.
func (uc *PackingUseCase) StartPacking(ctx context.Context, p entity.Principal, in dto.StartPackingRequest) (*dto.PickSlipResponse, error) {
	if err := auth.Require(p, entity.RolePacker); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	list, err := uc.slips.ListReadyForPacking(ctx, in.PackingZone, candidates)
	if err != nil {
		return nil, err
	}
	lost := 0
	for _, slip := range list {
		next, err := lifecycle.StartPacking(slip, p.EmployeeID, uc.now())
		if err != nil {
			continue
		}
		err = uc.slips.Update(ctx, next)
		if errors.Is(err, domain.ErrConflict) {
			lost++
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.log.Info().Str("pick_slip_id", next.ID).Str("packer_id", p.EmployeeID).Str("zone", in.PackingZone).Msg("empaque iniciado")
		return dto.NewPickSlipResponse(next), nil
	}
	if lost > 0 {
		return nil, fmt.Errorf("%w: todos los slips de la zona %s fueron tomados por otros packers", domain.ErrConflict, in.PackingZone)
	}
	return nil, fmt.Errorf("%w: no hay pick slips listos para empacar en la zona %s", domain.ErrNotFound, in.PackingZone)
}

// ClosePacking deja el slip READY-FOR-DISPATCH.
func (uc *PackingUseCase) ClosePacking(ctx context.Context, p entity.Principal, slipID string) (*dto.PickSlipResponse, error) {
	if err := auth.Require(p, entity.RolePacker); err != nil {
		return nil, err
	}
	slip, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(slipID),
		func(s *entity.PickSlip) (*entity.PickSlip, error) {
			if s.PackerID != "" && s.PackerID != p.EmployeeID {
				return nil, fmt.Errorf("%w: el pick slip %s lo empaca otro packer", domain.ErrForbidden, s.ID)
			}
			return lifecycle.ClosePacking(s, p.EmployeeID, uc.now())
		},
		uc.slips.Update,
	)
	if err != nil {
		return nil, err
	}
	return dto.NewPickSlipResponse(slip), nil
}

// Dispatch marca el slip como despachado.
func (uc *PackingUseCase) Dispatch(ctx context.Context, p entity.Principal, slipID string) (*dto.PickSlipResponse, error) {
	if err := auth.Require(p, entity.RoleDispatcher); err != nil {
		return nil, err
	}
	slip, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(slipID),
		func(s *entity.PickSlip) (*entity.PickSlip, error) {
			return lifecycle.Dispatch(s, p.EmployeeID, uc.now())
		},
		uc.slips.Update,
	)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("pick_slip_id", slip.ID).Str("dispatcher_id", p.EmployeeID).Msg("pick slip despachado")
	return dto.NewPickSlipResponse(slip), nil
}

// PackingList genera el PDF del slip con sus órdenes de picking.
func (uc *PackingUseCase) PackingList(ctx context.Context, p entity.Principal, slipID string) (pdf []byte, filename string, err error) {
	if err := auth.Require(p, entity.RolePacker, entity.RoleDispatcher, entity.RoleAdmin); err != nil {
		return nil, "", err
	}
	slip, err := uc.loader(slipID)(ctx)
	if err != nil {
		return nil, "", err
	}
	orders, err := uc.orders.ListBySlip(ctx, slip.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err = uc.renderer.RenderPackingList(ctx, slip, orders)
	if err != nil {
		return nil, "", fmt.Errorf("packing list %s: %w", slip.ID, err)
	}
	return pdf, "packing-list-" + slip.ID + ".pdf", nil
}

func (uc *PackingUseCase) loader(slipID string) func(context.Context) (*entity.PickSlip, error) {
	return func(ctx context.Context) (*entity.PickSlip, error) {
		s, err := uc.slips.GetByID(ctx, slipID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: pick slip %s", domain.ErrNotFound, slipID)
		}
		return s, nil
	}
}
