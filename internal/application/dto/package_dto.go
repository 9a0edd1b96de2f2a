package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QualityCheckRequest body para POST /api/packages/:id/tq/close.
type QualityCheckRequest struct {
	Flag        string `json:"flag" validate:"required,oneof=pass fail"`
	Description string `json:"description,omitempty"`
}

// PackageResponse representación de un paquete.
type PackageResponse struct {
	ID                        string         `json:"package_id"`
	StoringOrderID            string         `json:"storing_order_id"`
	ProductID                 string         `json:"product_id"`
	Quantity                  int            `json:"quantity"`
	RFIDIDs                   []string       `json:"rfid_ids,omitempty"`
	Status                    string         `json:"status"`
	TQScannedQuantity         int            `json:"tq_scanned_quantity"`
	BinAllocation             map[string]int `json:"bin_allocation,omitempty"`
	BinCurrent                map[string]int `json:"bin_current,omitempty"`
	BinnerID                  string         `json:"binner_id,omitempty"`
	TQStaffID                 string         `json:"tq_staff_id,omitempty"`
	TQFailDescription         string         `json:"tq_fail_description,omitempty"`
	TQStartDate               *time.Time     `json:"tq_start_date,omitempty"`
	TQDate                    *time.Time     `json:"tq_date,omitempty"`
	ReadyForBinAllocationDate *time.Time     `json:"ready_for_bin_allocation_date,omitempty"`
	BinAllocationDate         *time.Time     `json:"bin_allocation_date,omitempty"`
	BinnedDate                *time.Time     `json:"binned_date,omitempty"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
}

// BinAllocationResponse resultado de POST /api/packages/:id/bin-allocation.
type BinAllocationResponse struct {
	PackageID     string                     `json:"package_id"`
	BinAllocation map[string]int             `json:"bin_allocation"`
	VolumeUsed    map[string]decimal.Decimal `json:"volume_used"`
	Status        string                     `json:"status"`
}

// InventoryResponse fila de inventario por bin y producto.
type InventoryResponse struct {
	BinID     string    `json:"bin_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemResponse último estado conocido de una etiqueta RFID.
type ItemResponse struct {
	RFIDID     string     `json:"rfid_id"`
	PackageID  string     `json:"package_id"`
	Status     string     `json:"status"`
	BinID      string     `json:"bin_id,omitempty"`
	TQDate     *time.Time `json:"tq_date,omitempty"`
	BinnedDate *time.Time `json:"binned_date,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
