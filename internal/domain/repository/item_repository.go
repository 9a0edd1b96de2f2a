package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// ItemRepository define el puerto de la proyección por etiqueta RFID (sobrescritura por id).
type ItemRepository interface {
	Upsert(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, rfidID string) (*entity.Item, error)
	// SetStatus sobrescribe el estado de las etiquetas indicadas, creando las que falten.
	SetStatus(ctx context.Context, packageID string, rfidIDs []string, status string) error
}
