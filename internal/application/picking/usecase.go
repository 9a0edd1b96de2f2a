// Package picking implementa el flujo de órdenes de picking y su cierre sobre el pick slip.
package picking

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/retry"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// PickingUseCase orquesta NextPickOrder, ClosePickOrder y el listado de slips.
type PickingUseCase struct {
	orders  repository.PickOrderRepository
	slips   repository.PickSlipRepository
	retries int
	log     *logger.Logger
	now     func() time.Time
}

// NewPickingUseCase construye el caso de uso de picking.
func NewPickingUseCase(orders repository.PickOrderRepository, slips repository.PickSlipRepository, retries int, log *logger.Logger) *PickingUseCase {
	return &PickingUseCase{orders: orders, slips: slips, retries: retries, log: log.Component("picking"), now: time.Now}
}

// NextPickOrder devuelve la orden pendiente más antigua asignada al picker.
func (uc *PickingUseCase) NextPickOrder(ctx context.Context, p entity.Principal) (*dto.PickOrderResponse, error) {
	if err := auth.Require(p, entity.RolePicker); err != nil {
		return nil, err
	}
	o, err := uc.orders.NextForPicker(ctx, p.EmployeeID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: no hay órdenes de picking pendientes", domain.ErrNotFound)
	}
	return dto.NewPickOrderResponse(o), nil
}

// ClosePickOrder cierra la orden del picker. Si con ello todas las órdenes del
// slip quedan en CLOSE, el slip pasa a READY-FOR-PACKING una sola vez aunque
// varios cierres concurrentes lo detecten. Repetir el cierre de una orden ya
// cerrada vuelve a evaluar la cascada, así un fallo previo al mover el slip se
// recupera reintentando.
func (uc *PickingUseCase) ClosePickOrder(ctx context.Context, p entity.Principal, orderID string) (*dto.ClosePickOrderResponse, error) {
	if err := auth.Require(p, entity.RolePicker); err != nil {
		return nil, err
	}
	order, closedNow, err := retry.Mutate(ctx, uc.retries,
		func(ctx context.Context) (*entity.PickOrder, error) {
			o, err := uc.orders.GetByID(ctx, orderID)
			if err != nil {
				return nil, err
			}
			if o == nil {
				return nil, fmt.Errorf("%w: orden de picking %s", domain.ErrNotFound, orderID)
			}
			return o, nil
		},
		func(o *entity.PickOrder) (*entity.PickOrder, error) {
			return lifecycle.ClosePickOrder(o, p.EmployeeID, uc.now())
		},
		uc.orders.Update,
	)
	if err != nil {
		return nil, err
	}

	ready, err := uc.cascadeSlip(ctx, order.PickSlipID)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("pick_order_id", order.ID).
		Str("pick_slip_id", order.PickSlipID).
		Bool("slip_ready_for_packing", ready).
		Bool("retry", !closedNow).
		Msg("orden de picking cerrada")

	return &dto.ClosePickOrderResponse{PickOrder: *dto.NewPickOrderResponse(order), SlipReadyForPacking: ready}, nil
}

// cascadeSlip mueve el slip a READY-FOR-PACKING si todas sus órdenes están cerradas.
// Devuelve true solo para el llamador cuya actualización condicional aplicó el cambio.
func (uc *PickingUseCase) cascadeSlip(ctx context.Context, slipID string) (bool, error) {
	siblings, err := uc.orders.ListBySlip(ctx, slipID)
	if err != nil {
		return false, err
	}
	if !lifecycle.AllClosed(siblings) {
		return false, nil
	}
	_, changed, err := retry.Mutate(ctx, uc.retries,
		func(ctx context.Context) (*entity.PickSlip, error) {
			s, err := uc.slips.GetByID(ctx, slipID)
			if err != nil {
				return nil, err
			}
			if s == nil {
				return nil, fmt.Errorf("%w: pick slip %s", domain.ErrNotFound, slipID)
			}
			return s, nil
		},
		func(s *entity.PickSlip) (*entity.PickSlip, error) {
			return lifecycle.ReadyForPacking(s, uc.now())
		},
		uc.slips.Update,
	)
	return changed, err
}

// ListPickSlips lista los pick slips (solo admin).
func (uc *PickingUseCase) ListPickSlips(ctx context.Context, p entity.Principal, page dto.PageRequest) ([]*dto.PickSlipResponse, error) {
	if err := auth.Require(p, entity.RoleAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.slips.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PickSlipResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewPickSlipResponse(s))
	}
	return out, nil
}
