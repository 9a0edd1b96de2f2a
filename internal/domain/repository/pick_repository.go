package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// PickOrderRepository define el puerto de persistencia para PickOrder (Update condicional por Version).
type PickOrderRepository interface {
	Create(ctx context.Context, order *entity.PickOrder) error
	GetByID(ctx context.Context, id string) (*entity.PickOrder, error)
	Update(ctx context.Context, order *entity.PickOrder) error
	ListBySlip(ctx context.Context, pickSlipID string) ([]*entity.PickOrder, error)
	// NextForPicker devuelve la orden READY-FOR-PICKING más antigua del picker o nil.
	NextForPicker(ctx context.Context, pickerID string) (*entity.PickOrder, error)
}

// PickSlipRepository define el puerto de persistencia para PickSlip (Update condicional por Version).
type PickSlipRepository interface {
	Create(ctx context.Context, slip *entity.PickSlip) error
	GetByID(ctx context.Context, id string) (*entity.PickSlip, error)
	Update(ctx context.Context, slip *entity.PickSlip) error
	// ListReadyForPacking devuelve los slips READY-FOR-PACKING de la zona, del más antiguo al más reciente.
	ListReadyForPacking(ctx context.Context, zone string, limit int) ([]*entity.PickSlip, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PickSlip, error)
}
