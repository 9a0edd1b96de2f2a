package repository

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// PackageRepository define el puerto de persistencia para Package.
// Update es compare-and-swap sobre Version; en éxito incrementa pkg.Version.
type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	GetByID(ctx context.Context, id string) (*entity.Package, error)
	Update(ctx context.Context, pkg *entity.Package) error
	ListByStoringOrder(ctx context.Context, storingOrderID string) ([]*entity.Package, error)
	ListByTQStaff(ctx context.Context, tqStaffID string, limit, offset int) ([]*entity.Package, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Package, error)
}
