// Package quality implementa la inspección de calidad (TQ) de paquetes.
package quality

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

var anyRole = []string{
	entity.RoleAdmin, entity.RoleReceiver, entity.RoleTQEmployee, entity.RoleBinner,
	entity.RolePicker, entity.RolePacker, entity.RoleDispatcher, entity.RoleScanner,
}

// QualityUseCase consulta paquetes y ejecuta StartTQ / QualityCheck.
type QualityUseCase struct {
	packages repository.PackageRepository
	retries  int
	log      *logger.Logger
	now      func() time.Time
}

// NewQualityUseCase construye el caso de uso de inspección.
func NewQualityUseCase(packages repository.PackageRepository, retries int, log *logger.Logger) *QualityUseCase {
	return &QualityUseCase{packages: packages, retries: retries, log: log.Component("quality"), now: time.Now}
}

// List devuelve todos los paquetes para admin; un tq_employee ve los que inspecciona.
func (uc *QualityUseCase) List(ctx context.Context, p entity.Principal, page dto.PageRequest) ([]*dto.PackageResponse, error) {
	if err := auth.Require(p, entity.RoleAdmin, entity.RoleTQEmployee); err != nil {
		return nil, err
	}
	page.DefaultPage()
	var (
		list []*entity.Package
		err  error
	)
	if p.Role == entity.RoleAdmin {
		list, err = uc.packages.List(ctx, page.Limit, page.Offset)
	} else {
		list, err = uc.packages.ListByTQStaff(ctx, p.EmployeeID, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PackageResponse, 0, len(list))
	for _, pkg := range list {
		out = append(out, dto.NewPackageResponse(pkg))
	}
	return out, nil
}

// Get devuelve un paquete a cualquier empleado autenticado.
func (uc *QualityUseCase) Get(ctx context.Context, p entity.Principal, id string) (*dto.PackageResponse, error) {
	if err := auth.Require(p, anyRole...); err != nil {
		return nil, err
	}
	pkg, err := LoadPackage(ctx, uc.packages, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPackageResponse(pkg), nil
}

// StartTQ registra al inspector y la hora de inicio.
func (uc *QualityUseCase) StartTQ(ctx context.Context, p entity.Principal, id string) (*dto.PackageResponse, error) {
	if err := auth.Require(p, entity.RoleTQEmployee); err != nil {
		return nil, err
	}
	pkg, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(id),
		func(pkg *entity.Package) (*entity.Package, error) {
			return lifecycle.StartTQ(pkg, p.EmployeeID, uc.now())
		},
		uc.packages.Update,
	)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("package_id", id).Str("tq_staff_id", p.EmployeeID).Msg("inspección iniciada")
	return dto.NewPackageResponse(pkg), nil
}

// CloseTQ aplica el resultado de la inspección (pass o fail).
func (uc *QualityUseCase) CloseTQ(ctx context.Context, p entity.Principal, id string, in dto.QualityCheckRequest) (*dto.PackageResponse, error) {
	if err := auth.Require(p, entity.RoleTQEmployee); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	pkg, _, err := retry.Mutate(ctx, uc.retries,
		uc.loader(id),
		func(pkg *entity.Package) (*entity.Package, error) {
			return lifecycle.QualityCheck(pkg, in.Flag, in.Description, p.EmployeeID, uc.now())
		},
		uc.packages.Update,
	)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("package_id", id).
		Str("flag", in.Flag).
		Str("status", pkg.Status).
		Msg("inspección cerrada")
	return dto.NewPackageResponse(pkg), nil
}

func (uc *QualityUseCase) loader(id string) func(context.Context) (*entity.Package, error) {
	return func(ctx context.Context) (*entity.Package, error) {
		return LoadPackage(ctx, uc.packages, id)
	}
}

// LoadPackage lee un paquete y convierte la ausencia en domain.ErrNotFound.
func LoadPackage(ctx context.Context, repo repository.PackageRepository, id string) (*entity.Package, error) {
	pkg, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: paquete %s", domain.ErrNotFound, id)
	}
	return pkg, nil
}
