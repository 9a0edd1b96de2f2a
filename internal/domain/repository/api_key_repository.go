package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// APIKeyRepository define el puerto de persistencia para credenciales de empleados.
type APIKeyRepository interface {
	Create(ctx context.Context, key *entity.APIKey) error
	GetByID(ctx context.Context, id string) (*entity.APIKey, error)
}
