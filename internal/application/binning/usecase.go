// Package binning implementa la asignación de bins, el cierre de binning y la
// acumulación de inventario por bin y producto.
package binning

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

		"github.com/jhoicas/wms-rfid-api/internal/application/auth"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/application/quality"
	"github.com/jhoicas/wms-rfid-api/internal/application/retry"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/binalloc"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

// AllocationLockKey serializa todas las planificaciones de bins.
const AllocationLockKey = "lock:bin-allocation"

// Repos agrupa los puertos que usa el caso de uso.
type Repos struct {
	Packages  repository.PackageRepository
	Products  repository.ProductRepository
	Bins      repository.BinRepository
	Inventory repository.InventoryRepository
	Items     repository.ItemRepository
	// Tx confirma el paquete BINNED y su inventario juntos.
	Tx ports.TxRunner
}

// BinningUseCase orquesta AllocateBin, CloseBinning y la consulta de inventario.
type BinningUseCase struct {
	repos   Repos
	locker  ports.Locker
	lockTTL time.Duration
	retries int
	log     *logger.Logger
	now     func() time.Time
}

// NewBinningUseCase construye el caso de uso de binning.
func NewBinningUseCase(repos Repos, locker ports.Locker, lockTTL time.Duration, retries int, log *logger.Logger) *BinningUseCase {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &BinningUseCase{
		repos:   repos,
		locker:  locker,
		lockTTL: lockTTL,
		retries: retries,
		log:     log.Component("binning"),
		now:     time.Now,
	}
}

// Allocate planifica la ubicación del paquete, descuenta el volumen de cada bin
// y deja el paquete en READY-FOR-BINNING. Si algo falla después de descontar,
// el volumen se devuelve a los bins.
func (uc *BinningUseCase) Allocate(ctx context.Context, p entity.Principal, packageID string) (_ *dto.BinAllocationResponse, err error) {
	if err := auth.Require(p, entity.RoleBinner); err != nil {
		return nil, err
	}
	release, err := uc.locker.Acquire(ctx, AllocationLockKey, uc.lockTTL)
	if errors.Is(err, ports.ErrLockNotObtained) {
		return nil, fmt.Errorf("%w: otra asignación de bins está en curso", domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			uc.log.Warn().Err(rerr).Msg("no se pudo liberar el lock de asignación")
		}
	}()

	pkg, err := quality.LoadPackage(ctx, uc.repos.Packages, packageID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanAllocate(pkg); err != nil {
		return nil, err
	}
	// Un paquete sin asignar no debería tener reservas; si las hay vienen de un
	// intento que se cortó antes de guardar el paquete.
	if err := uc.repos.Bins.ReleasePackage(ctx, pkg.ID); err != nil {
		return nil, err
	}
	product, err := uc.repos.Products.GetByID(ctx, pkg.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s del paquete %s", domain.ErrNotFound, pkg.ProductID, pkg.ID)
	}
	bins, err := uc.repos.Bins.List(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := binalloc.Compute(pkg.Quantity, product.Volume, binalloc.FromBins(bins))
	if err != nil {
		return nil, err
	}

	if err := uc.reserve(ctx, pkg.ID, plan); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			uc.compensate(ctx, packageID)
		}
	}()

	allocated, _, err := retry.Mutate(ctx, uc.retries,
		func(ctx context.Context) (*entity.Package, error) {
			return quality.LoadPackage(ctx, uc.repos.Packages, packageID)
		},
		func(cur *entity.Package) (*entity.Package, error) {
			return lifecycle.Allocate(cur, plan.Allocation, p.EmployeeID, uc.now())
		},
		uc.repos.Packages.Update,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.repos.Items.SetStatus(ctx, allocated.ID, allocated.RFIDIDs, entity.PackageReadyForBinning); err != nil {
		uc.log.Warn().Err(err).Str("package_id", allocated.ID).Msg("no se pudo actualizar la proyección de items")
	}
	uc.log.Info().
		Str("package_id", allocated.ID).
		Interface("bin_allocation", allocated.BinAllocation).
		Str("binner_id", p.EmployeeID).
		Msg("bins asignados")

	return &dto.BinAllocationResponse{
		PackageID:     allocated.ID,
		BinAllocation: allocated.BinAllocation,
		VolumeUsed:    plan.Deltas,
		Status:        allocated.Status,
	}, nil
}

// reserve descuenta el volumen de cada bin del plan en orden de id. Si un bin
// ya no tiene espacio se devuelve lo descontado y el comando falla.
func (uc *BinningUseCase) reserve(ctx context.Context, packageID string, plan *binalloc.Plan) error {
	binIDs := make([]string, 0, len(plan.Deltas))
	for binID := range plan.Deltas {
		binIDs = append(binIDs, binID)
	}
	slices.Sort(binIDs)
	for _, binID := range binIDs {
		if err := uc.repos.Bins.Reserve(ctx, packageID, binID, plan.Deltas[binID]); err != nil {
			uc.compensate(ctx, packageID)
			return err
		}
	}
	return nil
}

// compensate devuelve las reservas del paquete salvo que la asignación haya
// quedado guardada pese al error.
func (uc *BinningUseCase) compensate(ctx context.Context, packageID string) {
	ctx = context.WithoutCancel(ctx)
	log := uc.log.With().Str("package_id", packageID).Logger()
	if cur, err := uc.repos.Packages.GetByID(ctx, packageID); err == nil && cur != nil && cur.Status != entity.PackageReadyForBinAllocation {
		log.Warn().Str("status", cur.Status).Msg("asignación ya guardada, se conservan las reservas")
		return
	}
	if err := uc.repos.Bins.ReleasePackage(ctx, packageID); err != nil {
		log.Error().Err(err).Msg("no se pudo devolver volumen a los bins")
	}
}

// CloseBinning cierra el binning del paquete y acumula el inventario asignado.
func (uc *BinningUseCase) CloseBinning(ctx context.Context, p entity.Principal, packageID string) (*dto.PackageResponse, error) {
	if err := auth.Require(p, entity.RoleBinner); err != nil {
		return nil, err
	}
	pkg, _, err := retry.Mutate(ctx, uc.retries,
		func(ctx context.Context) (*entity.Package, error) {
			return quality.LoadPackage(ctx, uc.repos.Packages, packageID)
		},
		func(cur *entity.Package) (*entity.Package, error) {
			return lifecycle.CloseBinning(cur, p.EmployeeID, uc.now())
		},
		SaveWithInventory(uc.repos.Tx, uc.repos.Packages),
	)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Items.SetStatus(ctx, pkg.ID, pkg.RFIDIDs, entity.PackageBinned); err != nil {
		uc.log.Warn().Err(err).Str("package_id", pkg.ID).Msg("no se pudo actualizar la proyección de items")
	}
	uc.log.Info().Str("package_id", pkg.ID).Str("binner_id", p.EmployeeID).Msg("binning cerrado")
	return dto.NewPackageResponse(pkg), nil
}

// ListInventory devuelve el inventario por bin y producto (solo admin).
func (uc *BinningUseCase) ListInventory(ctx context.Context, p entity.Principal, page dto.PageRequest) ([]dto.InventoryResponse, error) {
	if err := auth.Require(p, entity.RoleAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	rows, err := uc.repos.Inventory.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InventoryResponse{BinID: r.BinID, ProductID: r.ProductID, Quantity: r.Quantity, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

// GetItem devuelve el último estado conocido de una etiqueta. Admin ve todas;
// tq_employee y binner solo las de paquetes que inspeccionaron o ubicaron.
func (uc *BinningUseCase) GetItem(ctx context.Context, p entity.Principal, rfidID string) (*dto.ItemResponse, error) {
	if err := auth.Require(p, entity.RoleAdmin, entity.RoleTQEmployee, entity.RoleBinner); err != nil {
		return nil, err
	}
	it, err := uc.repos.Items.GetByID(ctx, rfidID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: etiqueta %s", domain.ErrNotFound, rfidID)
	}
	if p.Role != entity.RoleAdmin {
		pkg, err := uc.repos.Packages.GetByID(ctx, it.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg == nil || !handledBy(pkg, p) {
			return nil, fmt.Errorf("%w: etiqueta %s", domain.ErrNotFound, rfidID)
		}
	}
	return dto.NewItemResponse(it), nil
}

func handledBy(pkg *entity.Package, p entity.Principal) bool {
	switch p.Role {
	case entity.RoleTQEmployee:
		return pkg.TQStaffID == p.EmployeeID
	case entity.RoleBinner:
		return pkg.BinnerID == p.EmployeeID
	}
	return false
}

// SaveWithInventory devuelve la función de guardado de un paquete. Si el
// paquete queda BINNED, el estado y el inventario se confirman en la misma
// transacción; si algo falla no queda ninguno de los dos.
func SaveWithInventory(tx ports.TxRunner, packages repository.PackageRepository) func(context.Context, *entity.Package) error {
	return func(ctx context.Context, pkg *entity.Package) error {
		if pkg.Status != entity.PackageBinned {
			return packages.Update(ctx, pkg)
		}
		return tx.InTx(ctx, func(r ports.TxRepos) error {
			if err := r.Packages.Update(ctx, pkg); err != nil {
				return err
			}
			return AccrueInventory(ctx, r.Inventory, pkg)
		})
	}
}

// AccrueInventory suma al inventario las unidades asignadas por bin de un
// paquete que pasa a BINNED. Debe correr dentro de la transacción del cambio de estado.
func AccrueInventory(ctx context.Context, inv repository.InventoryRepository, pkg *entity.Package) error {
	for _, post := range lifecycle.Postings(pkg) {
		if err := inv.Add(ctx, post.BinID, post.ProductID, post.Quantity); err != nil {
			return fmt.Errorf("acumular inventario %s/%s: %w", post.BinID, post.ProductID, err)
		}
	}
	return nil
}
