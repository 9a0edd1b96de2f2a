package dto

import "time"

// ReceiveOrderRequest body para POST /api/storing-orders/:id/receive.
type ReceiveOrderRequest struct {
	InvoiceNumber    string `json:"invoice_number" validate:"required"`
	BillOfEntryID    string `json:"bill_of_entry_id" validate:"required"`
	AirwayBillNumber string `json:"airway_bill_number" validate:"required"`
	Quantity         int    `json:"quantity" validate:"min=0"`
}

// UpdateDiscrepancyRequest body para PUT /api/storing-orders/:id/discrepancy.
type UpdateDiscrepancyRequest struct {
	DiscrepancyDetail string `json:"discrepancy_detail" validate:"required"`
}

// ValidityCheckRequest body para POST /api/storing-orders/:id/validity-check.
type ValidityCheckRequest struct {
	AirwayBillNumber string `json:"airway_bill_number" validate:"required"`
	BillOfEntryID    string `json:"bill_of_entry_id" validate:"required"`
}

// StoringOrderResponse representación de una orden de almacenamiento.
type StoringOrderResponse struct {
	ID                string     `json:"storing_order_id"`
	ReceiverID        string     `json:"receiver_id"`
	InvoiceNumber     string     `json:"invoice_number"`
	BillOfEntryID     string     `json:"bill_of_entry_id"`
	AirwayBillNumber  string     `json:"airway_bill_number"`
	PackageQuantity   int        `json:"package_quantity"`
	Status            string     `json:"status"`
	DiscrepancyDetail string     `json:"discrepancy_detail,omitempty"`
	PackageIDs        []string   `json:"package_ids"`
	ReceivedDate      *time.Time `json:"received_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
