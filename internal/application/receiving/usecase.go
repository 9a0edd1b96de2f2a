// Package receiving implementa la recepción de órdenes de almacenamiento y su
// propagación a los paquetes.
package receiving

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

// ReceivingUseCase orquesta Receive, UpdateDiscrepancy y ValidityCheck.
type ReceivingUseCase struct {
	orders   repository.StoringOrderRepository
	packages repository.PackageRepository
	retries  int
	log      *logger.Logger
	now      func() time.Time
}

// NewReceivingUseCase construye el caso de uso de recepción.
func NewReceivingUseCase(
	orders repository.StoringOrderRepository,
	packages repository.PackageRepository,
	retries int,
	log *logger.Logger,
) *ReceivingUseCase {
	return &ReceivingUseCase{
		orders:   orders,
		packages: packages,
		retries:  retries,
		log:      log.Component("receiving"),
		now:      time.Now,
	}
}

// List devuelve todas las órdenes para admin y solo las propias para un receptor.
func (uc *ReceivingUseCase) List(ctx context.Context, p entity.Principal, page dto.PageRequest) ([]*dto.StoringOrderResponse, error) {
	if err := auth.Require(p, entity.RoleAdmin, entity.RoleReceiver); err != nil {
		return nil, err
	}
	page.DefaultPage()
	var (
		list []*entity.StoringOrder
		err  error
	)
	if p.Role == entity.RoleAdmin {
		list, err = uc.orders.List(ctx, page.Limit, page.Offset)
	} else {
		list, err = uc.orders.ListByReceiver(ctx, p.EmployeeID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StoringOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, dto.NewStoringOrderResponse(o))
	}
	return out, nil
}

// Receive compara los valores declarados con los esperados y deja la orden en
// RECEIVED o INSPECTION-FAILED, propagando el estado a todos sus paquetes.
// Repetir una recepción correcta sobre una orden RECEIVED solo reintenta la propagación.
func (uc *ReceivingUseCase) Receive(ctx context.Context, p entity.Principal, orderID string, in dto.ReceiveOrderRequest) (*dto.StoringOrderResponse, error) {
	if err := auth.Require(p, entity.RoleReceiver); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	input := lifecycle.ReceiveInput{
		InvoiceNumber:    in.InvoiceNumber,
		BillOfEntryID:    in.BillOfEntryID,
		AirwayBillNumber: in.AirwayBillNumber,
		PackageQuantity:  in.Quantity,
	}
	order, changed, err := retry.Mutate(ctx, uc.retries,
		uc.loader(orderID),
		func(o *entity.StoringOrder) (*entity.StoringOrder, error) {
			if err := ownedBy(o, p); err != nil {
				return nil, err
			}
			return lifecycle.Receive(o, input, uc.now())
		},
		uc.orders.Update,
	)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("storing_order_id", order.ID).
		Str("status", order.Status).
		Bool("changed", changed).
		Str("receiver_id", p.EmployeeID).
		Msg("orden recibida")

	if err := uc.cascade(ctx, order); err != nil {
		return nil, err
	}
	return dto.NewStoringOrderResponse(order), nil
}

// UpdateDiscrepancy reemplaza el detalle de una orden con inspección fallida.
func (uc *ReceivingUseCase) UpdateDiscrepancy(ctx context.Context, p entity.Principal, orderID string, in dto.UpdateDiscrepancyRequest) (*dto.StoringOrderResponse, error) {
	if err := auth.Require(p, entity.RoleReceiver); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	order, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(orderID),
		func(o *entity.StoringOrder) (*entity.StoringOrder, error) {
			if err := ownedBy(o, p); err != nil {
				return nil, err
			}
			return lifecycle.UpdateDiscrepancy(o, in.DiscrepancyDetail, uc.now())
		},
		uc.orders.Update,
	)
	if err != nil {
		return nil, err
	}
	return dto.NewStoringOrderResponse(order), nil
}

// ValidityCheck pasa una orden RECEIVED a TQ si la guía aérea y la declaración coinciden.
func (uc *ReceivingUseCase) ValidityCheck(ctx context.Context, p entity.Principal, orderID string, in dto.ValidityCheckRequest) (*dto.StoringOrderResponse, error) {
	if err := auth.Require(p, entity.RoleReceiver, entity.RoleAdmin); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	order, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(orderID),
		func(o *entity.StoringOrder) (*entity.StoringOrder, error) {
			return lifecycle.ValidityCheck(o, in.AirwayBillNumber, in.BillOfEntryID, uc.now())
		},
		uc.orders.Update,
	)
	if err != nil {
		return nil, err
	}
	return dto.NewStoringOrderResponse(order), nil
}

// cascade mueve cada paquete CREATED de la orden al estado derivado.
// Los paquetes que ya avanzaron se ignoran, por lo que puede repetirse.
func (uc *ReceivingUseCase) cascade(ctx context.Context, order *entity.StoringOrder) error {
	if _, ok := lifecycle.CascadeStatus(order.Status); !ok {
		return nil
	}
	pkgs, err := uc.packages.ListByStoringOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	moved := 0
	for _, pkg := range pkgs {
		id := pkg.ID
		_, changed, err := retry.Mutate(ctx, uc.retries,
			func(ctx context.Context) (*entity.Package, error) {
				p, err := uc.packages.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				if p == nil {
					return nil, fmt.Errorf("%w: paquete %s", domain.ErrNotFound, id)
				}
				return p, nil
			},
			func(p *entity.Package) (*entity.Package, error) {
				return lifecycle.CascadePackage(p, order.Status, uc.now())
			},
			uc.packages.Update,
		)
		if err != nil {
			return fmt.Errorf("propagar estado al paquete %s: %w", id, err)
		}
		if changed {
			moved++
		}
	}
	uc.log.Debug().Str("storing_order_id", order.ID).Int("packages", moved).Msg("estado propagado a paquetes")
	return nil
}

func (uc *ReceivingUseCase) loader(orderID string) func(context.Context) (*entity.StoringOrder, error) {
	return func(ctx context.Context) (*entity.StoringOrder, error) {
		o, err := uc.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, fmt.Errorf("%w: orden de almacenamiento %s", domain.ErrNotFound, orderID)
		}
		return o, nil
	}
}

// ownedBy rechaza a un receptor distinto del asignado a la orden.
func ownedBy(o *entity.StoringOrder, p entity.Principal) error {
	if o.ReceiverID != "" && o.ReceiverID != p.EmployeeID {
		return fmt.Errorf("%w: la orden %s está asignada a otro receptor", domain.ErrForbidden, o.ID)
	}
	return nil
}
