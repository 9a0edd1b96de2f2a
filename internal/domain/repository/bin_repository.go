package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// BinRepository define el puerto de persistencia para Bin (DIP).
type BinRepository interface {
	Upsert(ctx context.Context, bin *entity.Bin) error
	GetByID(ctx context.Context, id string) (*entity.Bin, error)
	List(ctx context.Context) ([]*entity.Bin, error)
	// Reserve resta vol de availability_vol para packageID solo si queda >= vol
	// y deja registrada la reserva. Reservar de nuevo el mismo bin para el mismo
	// paquete no descuenta dos veces. Devuelve domain.ErrInsufficientSpace si la
	// condición no se cumple y domain.ErrNotFound si el bin no existe.
	Reserve(ctx context.Context, packageID, binID string, vol decimal.Decimal) error
	// ReleasePackage devuelve a cada bin el volumen reservado para packageID y
	// borra las reservas.
	ReleasePackage(ctx context.Context, packageID string) error
}
