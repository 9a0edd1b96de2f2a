package dto

import "time"

// StartPackingRequest body para POST /api/pick-slips/start-packing.
type StartPackingRequest struct {
	PackingZone string `json:"packing_zone" validate:"required"`
}

// PickOrderResponse representación de una orden de picking.
type PickOrderResponse struct {
	ID         string     `json:"pick_order_id"`
	PickSlipID string     `json:"pick_slip_id"`
	PickerID   string     `json:"picker_id"`
	ProductID  string     `json:"product_id"`
	BinID      string     `json:"bin_id"`
	Quantity   int        `json:"quantity"`
	Status     string     `json:"status"`
	PickedDate *time.Time `json:"picked_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ClosePickOrderResponse resultado de cerrar una orden; SlipReadyForPacking indica
// si este cierre completó el pick slip.
type ClosePickOrderResponse struct {
	PickOrder           PickOrderResponse `json:"pick_order"`
	SlipReadyForPacking bool              `json:"slip_ready_for_packing"`
}

// PickSlipResponse representación de un pick slip.
type PickSlipResponse struct {
	ID                  string     `json:"pick_slip_id"`
	PackingZone         string     `json:"packing_zone"`
	Status              string     `json:"status"`
	PackerID            string     `json:"packer_id,omitempty"`
	DispatcherID        string     `json:"dispatcher_id,omitempty"`
	ReadyForPackingDate *time.Time `json:"ready_for_packing_date,omitempty"`
	PackingStartDate    *time.Time `json:"packing_start_date,omitempty"`
	PackedDate          *time.Time `json:"packed_date,omitempty"`
	DispatchedDate      *time.Time `json:"dispatched_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
