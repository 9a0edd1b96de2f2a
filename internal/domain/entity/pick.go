package entity

import "time"

// Estados de una orden de picking.
const (
	PickOrderReadyForPicking = "READY-FOR-PICKING"
	PickOrderClosed          = "CLOSE"
)

// Estados de un pick slip.
const (
	PickSlipPicking           = "PICKING"
	PickSlipReadyForPacking   = "READY-FOR-PACKING"
	PickSlipPackingInProgress = "PACKING-IN-PROGRESS"
	PickSlipReadyForDispatch  = "READY-FOR-DISPATCH"
	PickSlipDispatched        = "DISPATCHED"
)

// PickOrder es una línea de picking asignada a un picker dentro de un pick slip.
type PickOrder struct {
	ID         string
	PickSlipID string
	PickerID   string
	ProductID  string
	BinID      string
	Quantity   int
	Status     string
	PickedDate *time.Time
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PickSlip agrupa las órdenes de picking de un despacho. Pasa a READY-FOR-PACKING
// solo cuando todas sus órdenes están en CLOSE.
type PickSlip struct {
	ID                  string
	PackingZone         string
	Status              string
	PackerID            string
	DispatcherID        string
	ReadyForPackingDate *time.Time
	PackingStartDate    *time.Time
	PackedDate          *time.Time
	DispatchedDate      *time.Time
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
