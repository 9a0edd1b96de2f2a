package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// InventoryRepository define el puerto para el stock confirmado por bin+producto.
type InventoryRepository interface {
	Get(ctx context.Context, binID, productID string) (*entity.Inventory, error)
	// Add suma qty de forma atómica (crea la fila si no existe).
	Add(ctx context.Context, binID, productID string, qty int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Inventory, error)
}
