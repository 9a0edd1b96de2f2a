package entity

import (
	"maps"
	"slices"
	"time"
)

// Estados del ciclo de vida de un paquete.
const (
	PackageCreated               = "CREATED"
	PackageInspectionFailed      = "INSPECTION-FAILED"
	PackageReadyForTQ            = "READY-FOR-TQ"
	PackageReadyForRFIDAttach    = "READY-FOR-RFID-ATTACH"
	PackageTQChecking            = "TQ-CHECKING"
	PackageTQFailed              = "TQ-QUALITY-CHECK-FAILED"
	PackageReadyForBinAllocation = "READY-FOR-BIN-ALLOCATION"
	PackageReadyForBinning       = "READY-FOR-BINNING"
	PackageBinning               = "BINNING"
	PackageBinned                = "BINNED"
)

// Package es una unidad física recibida con una etiqueta RFID por unidad.
//
// Invariantes:
//   - 0 <= TQScannedQuantity <= Quantity
//   - BinCurrent[b] <= BinAllocation[b] para todo b una vez asignado
//   - BINNED solo cuando BinCurrent == BinAllocation (mismas claves y valores)
//
// TQScannedTags y BinnedTags registran qué etiquetas ya se contaron para que
// una entrega repetida del mismo evento no avance los contadores.
type Package struct {
	ID                        string
	StoringOrderID            string
	ProductID                 string
	Quantity                  int
	RFIDIDs                   []string
	Status                    string
	TQScannedQuantity         int
	TQScannedTags             []string
	BinAllocation             map[string]int
	BinCurrent                map[string]int
	BinnedTags                []string
	BinnerID                  string
	TQStaffID                 string
	TQFailDescription         string
	TQStartDate               *time.Time
	TQDate                    *time.Time
	ReadyForBinAllocationDate *time.Time
	BinAllocationDate         *time.Time
	BinnedDate                *time.Time
	Version                   int64
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Clone devuelve una copia profunda (mapas y slices incluidos).
func (p *Package) Clone() *Package {
	if p == nil {
		return nil
	}
	c := *p
	c.RFIDIDs = slices.Clone(p.RFIDIDs)
	c.TQScannedTags = slices.Clone(p.TQScannedTags)
	c.BinnedTags = slices.Clone(p.BinnedTags)
	c.BinAllocation = maps.Clone(p.BinAllocation)
	c.BinCurrent = maps.Clone(p.BinCurrent)
	c.TQStartDate = cloneTime(p.TQStartDate)
	c.TQDate = cloneTime(p.TQDate)
	c.ReadyForBinAllocationDate = cloneTime(p.ReadyForBinAllocationDate)
	c.BinAllocationDate = cloneTime(p.BinAllocationDate)
	c.BinnedDate = cloneTime(p.BinnedDate)
	return &c
}

// HasTag indica si la etiqueta pertenece al paquete. Un paquete sin lista de
// etiquetas acepta cualquiera.
func (p *Package) HasTag(rfidID string) bool {
	if len(p.RFIDIDs) == 0 {
		return true
	}
	return slices.Contains(p.RFIDIDs, rfidID)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
