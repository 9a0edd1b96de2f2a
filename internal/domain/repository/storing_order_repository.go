package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// StoringOrderRepository define el puerto de persistencia para StoringOrder.
// Update es condicional: solo aplica si Version coincide con la leída; si no, domain.ErrConflict.
type StoringOrderRepository interface {
	Create(ctx context.Context, order *entity.StoringOrder) error
	GetByID(ctx context.Context, id string) (*entity.StoringOrder, error)
	Update(ctx context.Context, order *entity.StoringOrder) error
	List(ctx context.Context, limit, offset int) ([]*entity.StoringOrder, error)
	ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*entity.StoringOrder, error)
}
