package lifecycle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// Resultados posibles del control de calidad.
const (
	QualityPass = "pass"
	QualityFail = "fail"
)

// StartTQ registra el inicio de la inspección sin cambiar el estado del paquete.
func StartTQ(pkg *entity.Package, staffID string, now time.Time) (*entity.Package, error) {
	if pkg.Status != entity.PackageReadyForTQ {
		return nil, statusError("el paquete", pkg.Status, entity.PackageReadyForTQ)
	}
	next := pkg.Clone()
	next.TQStaffID = staffID
	next.TQStartDate = &now
	next.UpdatedAt = now
	return next, nil
}

// QualityCheck cierra la inspección: pass lleva a READY-FOR-RFID-ATTACH y
// fail a TQ-QUALITY-CHECK-FAILED con la descripción dada.
func QualityCheck(pkg *entity.Package, flag, description, staffID string, now time.Time) (*entity.Package, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag != QualityPass && flag != QualityFail {
		return nil, fmt.Errorf("%w: flag debe ser pass o fail", domain.ErrInvalidInput)
	}
	if pkg.Status != entity.PackageReadyForTQ {
		return nil, statusError("el paquete", pkg.Status, entity.PackageReadyForTQ)
	}
	next := pkg.Clone()
	next.UpdatedAt = now
	if staffID != "" {
		next.TQStaffID = staffID
	}
	if flag == QualityFail {
		next.Status = entity.PackageTQFailed
		next.TQFailDescription = description
		next.TQDate = &now
		return next, nil
	}
	next.Status = entity.PackageReadyForRFIDAttach
	return next, nil
}

// ApplyTQScan cuenta una lectura RFID de inspección. Al llegar a Quantity el
// paquete pasa a READY-FOR-BIN-ALLOCATION; antes queda en TQ-CHECKING.
func ApplyTQScan(pkg *entity.Package, rfidID string, at time.Time) (*entity.Package, error) {
	if rfidID == "" {
		return nil, fmt.Errorf("%w: rfid_id requerido", domain.ErrInvalidInput)
	}
	if slices.Contains(pkg.TQScannedTags, rfidID) {
		return nil, ErrDuplicateScan
	}
	if !in(pkg.Status, entity.PackageReadyForRFIDAttach, entity.PackageTQChecking) {
		return nil, statusError("el paquete", pkg.Status, entity.PackageReadyForRFIDAttach, entity.PackageTQChecking)
	}
	if !pkg.HasTag(rfidID) {
		return nil, fmt.Errorf("%w: la etiqueta %s no pertenece al paquete %s", domain.ErrInvalidInput, rfidID, pkg.ID)
	}
	if pkg.TQScannedQuantity+1 > pkg.Quantity {
		return nil, fmt.Errorf("%w: tq_scanned_quantity superaría quantity (%d)", domain.ErrPrecondition, pkg.Quantity)
	}
	next := pkg.Clone()
	next.TQScannedQuantity++
	next.TQScannedTags = append(next.TQScannedTags, rfidID)
	next.UpdatedAt = at
	if next.TQScannedQuantity == next.Quantity {
		next.Status = entity.PackageReadyForBinAllocation
		next.TQDate = &at
		next.ReadyForBinAllocationDate = &at
		return next, nil
	}
	next.Status = entity.PackageTQChecking
	return next, nil
}
