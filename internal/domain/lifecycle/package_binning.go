package lifecycle

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// Posting es un incremento de inventario derivado de un paquete terminado.
type Posting struct {
	BinID     string
	ProductID string
	Quantity  int
}

// Allocate fija la asignación de bins calculada por el planificador.
// La suma de la asignación debe ser igual a la cantidad del paquete.
func Allocate(pkg *entity.Package, allocation map[string]int, binnerID string, now time.Time) (*entity.Package, error) {
	if pkg.Status != entity.PackageReadyForBinAllocation {
		return nil, statusError("el paquete", pkg.Status, entity.PackageReadyForBinAllocation)
	}
	total := 0
	for bin, qty := range allocation {
		if qty <= 0 {
			return nil, fmt.Errorf("%w: cantidad no positiva para bin %s", domain.ErrInvalidInput, bin)
		}
		total += qty
	}
	if total != pkg.Quantity {
		return nil, fmt.Errorf("%w: la asignación suma %d y el paquete tiene %d", domain.ErrInvalidInput, total, pkg.Quantity)
	}
	next := pkg.Clone()
	next.Status = entity.PackageReadyForBinning
	next.BinAllocation = maps.Clone(allocation)
	next.BinCurrent = map[string]int{}
	next.BinnerID = binnerID
	next.BinAllocationDate = &now
	next.UpdatedAt = now
	return next, nil
}

// ApplyBinScan cuenta una lectura RFID en un bin. Devuelve true cuando la
// lectura completa la asignación y el paquete queda BINNED.
func ApplyBinScan(pkg *entity.Package, rfidID, binID string, at time.Time) (*entity.Package, bool, error) {
	if rfidID == "" || binID == "" {
		return nil, false, fmt.Errorf("%w: rfid_id y bin_id requeridos", domain.ErrInvalidInput)
	}
	if slices.Contains(pkg.BinnedTags, rfidID) {
		return nil, false, ErrDuplicateScan
	}
	if !in(pkg.Status, entity.PackageReadyForBinning, entity.PackageBinning) {
		return nil, false, statusError("el paquete", pkg.Status, entity.PackageReadyForBinning, entity.PackageBinning)
	}
	if !pkg.HasTag(rfidID) {
		return nil, false, fmt.Errorf("%w: la etiqueta %s no pertenece al paquete %s", domain.ErrInvalidInput, rfidID, pkg.ID)
	}
	allocated, ok := pkg.BinAllocation[binID]
	if !ok {
		return nil, false, fmt.Errorf("%w: el bin %s no está en la asignación del paquete", domain.ErrPrecondition, binID)
	}
	if pkg.BinCurrent[binID]+1 > allocated {
		return nil, false, fmt.Errorf("%w: bin_current[%s] superaría lo asignado (%d)", domain.ErrPrecondition, binID, allocated)
	}
	next := pkg.Clone()
	if next.BinCurrent == nil {
		next.BinCurrent = map[string]int{}
	}
	next.BinCurrent[binID]++
	next.BinnedTags = append(next.BinnedTags, rfidID)
	next.UpdatedAt = at
	if maps.Equal(next.BinCurrent, next.BinAllocation) {
		next.Status = entity.PackageBinned
		next.BinnedDate = &at
		return next, true, nil
	}
	next.Status = entity.PackageBinning
	return next, false, nil
}

// CloseBinning cierra el binning manualmente. Un paquete ya BINNED se rechaza.
func CloseBinning(pkg *entity.Package, binnerID string, now time.Time) (*entity.Package, error) {
	if !in(pkg.Status, entity.PackageReadyForBinning, entity.PackageBinning) {
		return nil, statusError("el paquete", pkg.Status, entity.PackageReadyForBinning, entity.PackageBinning)
	}
	next := pkg.Clone()
	next.Status = entity.PackageBinned
	if binnerID != "" {
		next.BinnerID = binnerID
	}
	next.BinnedDate = &now
	next.UpdatedAt = now
	return next, nil
}

// Postings devuelve los incrementos de inventario de un paquete según su
// asignación, ordenados por bin.
func Postings(pkg *entity.Package) []Posting {
	bins := make([]string, 0, len(pkg.BinAllocation))
	for b := range pkg.BinAllocation {
		bins = append(bins, b)
	}
	slices.Sort(bins)
	out := make([]Posting, 0, len(bins))
	for _, b := range bins {
		out = append(out, Posting{BinID: b, ProductID: pkg.ProductID, Quantity: pkg.BinAllocation[b]})
	}
	return out
}

// CanAllocate verifica la precondición de Allocate antes de planificar.
func CanAllocate(pkg *entity.Package) error {
	if pkg.Status != entity.PackageReadyForBinAllocation {
		return statusError("el paquete", pkg.Status, entity.PackageReadyForBinAllocation)
	}
	return nil
}
