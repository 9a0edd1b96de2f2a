package entity

import "time"

// Estados de una orden de almacenamiento.
const (
	StoringOrderCreated          = "CREATED"
	StoringOrderReceived         = "RECEIVED"
	StoringOrderInspectionFailed = "INSPECTION-FAILED"
	StoringOrderTQ               = "TQ"
)

// StoringOrder es una orden de entrada de mercancía. InvoiceNumber, BillOfEntryID,
// AirwayBillNumber y PackageQuantity son los valores esperados cargados al crearla;
// el receptor los reenvía al recibir y se comparan campo a campo.
type StoringOrder struct {
	ID                string
	ReceiverID        string
	InvoiceNumber     string
	BillOfEntryID     string
	AirwayBillNumber  string
	PackageQuantity   int
	Status            string
	DiscrepancyDetail string
	PackageIDs        []string
	ReceivedDate      *time.Time
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone devuelve una copia profunda.
func (o *StoringOrder) Clone() *StoringOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.PackageIDs = append([]string(nil), o.PackageIDs...)
	if o.ReceivedDate != nil {
		t := *o.ReceivedDate
		c.ReceivedDate = &t
	}
	return &c
}
