package ports

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// PackingListRenderer genera el documento imprimible de un pick slip.
type PackingListRenderer interface {
	RenderPackingList(ctx context.Context, slip *entity.PickSlip, orders []*entity.PickOrder) ([]byte, error)
}
