package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// Nombres de campo usados en el detalle de discrepancia.
const (
	FieldInvoiceNumber    = "invoice_number"
	FieldBillOfEntryID    = "bill_of_entry_id"
	FieldAirwayBillNumber = "airway_bill_number"
	FieldPackageQuantity  = "package_quantity"
)

// ReceiveInput son los valores que el receptor declara al recibir la orden.
type ReceiveInput struct {
	InvoiceNumber    string
	BillOfEntryID    string
	AirwayBillNumber string
	PackageQuantity  int
}

// Mismatches devuelve, en orden fijo, los campos declarados que difieren de los esperados.
func Mismatches(order *entity.StoringOrder, in ReceiveInput) []string {
	var out []string
	if order.InvoiceNumber != in.InvoiceNumber {
		out = append(out, FieldInvoiceNumber)
	}
	if order.BillOfEntryID != in.BillOfEntryID {
		out = append(out, FieldBillOfEntryID)
	}
	if order.AirwayBillNumber != in.AirwayBillNumber {
		out = append(out, FieldAirwayBillNumber)
	}
	if order.PackageQuantity != in.PackageQuantity {
		out = append(out, FieldPackageQuantity)
	}
	return out
}

// DiscrepancyDetail formatea la lista de campos discrepantes.
func DiscrepancyDetail(fields []string) string {
	return "Mismatches: " + strings.Join(fields, ",")
}

// Receive aplica CREATED -> RECEIVED | INSPECTION-FAILED.
//
// Una orden ya RECEIVED cuyos valores coinciden devuelve una copia sin cambios y
// ErrNoChange, para que el llamador pueda reintentar la cascada a paquetes.
func Receive(order *entity.StoringOrder, in ReceiveInput, now time.Time) (*entity.StoringOrder, error) {
	mismatches := Mismatches(order, in)
	if order.Status == entity.StoringOrderReceived && len(mismatches) == 0 {
		return order.Clone(), ErrNoChange
	}
	if order.Status != entity.StoringOrderCreated {
		return nil, statusError("la orden", order.Status, entity.StoringOrderCreated)
	}
	next := order.Clone()
	next.UpdatedAt = now
	if len(mismatches) > 0 {
		next.Status = entity.StoringOrderInspectionFailed
		next.DiscrepancyDetail = DiscrepancyDetail(mismatches)
		return next, nil
	}
	next.Status = entity.StoringOrderReceived
	next.DiscrepancyDetail = ""
	next.ReceivedDate = &now
	return next, nil
}

// UpdateDiscrepancy reemplaza el detalle de una orden en INSPECTION-FAILED.
// Es la única transición permitida desde ese estado.
func UpdateDiscrepancy(order *entity.StoringOrder, detail string, now time.Time) (*entity.StoringOrder, error) {
	if strings.TrimSpace(detail) == "" {
		return nil, fmt.Errorf("%w: discrepancy_detail requerido", domain.ErrInvalidInput)
	}
	if order.Status != entity.StoringOrderInspectionFailed {
		return nil, statusError("la orden", order.Status, entity.StoringOrderInspectionFailed)
	}
	next := order.Clone()
	next.DiscrepancyDetail = detail
	next.UpdatedAt = now
	return next, nil
}

// ValidityCheck aplica RECEIVED -> TQ cuando la guía aérea y la declaración de
// importación reenviadas coinciden con las esperadas.
func ValidityCheck(order *entity.StoringOrder, airwayBill, billOfEntry string, now time.Time) (*entity.StoringOrder, error) {
	if order.Status == entity.StoringOrderTQ {
		return order.Clone(), ErrNoChange
	}
	if order.Status != entity.StoringOrderReceived {
		return nil, statusError("la orden", order.Status, entity.StoringOrderReceived)
	}
	if order.AirwayBillNumber != airwayBill || order.BillOfEntryID != billOfEntry {
		return nil, fmt.Errorf("%w: airway_bill_number o bill_of_entry_id no coinciden", domain.ErrPrecondition)
	}
	next := order.Clone()
	next.Status = entity.StoringOrderTQ
	next.UpdatedAt = now
	return next, nil
}

// CascadeStatus devuelve el estado que deben tomar los paquetes de una orden en el estado dado.
func CascadeStatus(orderStatus string) (string, bool) {
	switch orderStatus {
	case entity.StoringOrderReceived:
		return entity.PackageReadyForTQ, true
	case entity.StoringOrderInspectionFailed:
		return entity.PackageInspectionFailed, true
	}
	return "", false
}

// CascadePackage mueve un paquete en CREATED al estado derivado de su orden.
// Un paquete que ya avanzó no se toca (ErrNoChange), lo que hace la cascada repetible.
func CascadePackage(pkg *entity.Package, orderStatus string, now time.Time) (*entity.Package, error) {
	target, ok := CascadeStatus(orderStatus)
	if !ok {
		return nil, fmt.Errorf("%w: la orden en %s no propaga estado", domain.ErrPrecondition, orderStatus)
	}
	if pkg.Status != entity.PackageCreated {
		return pkg.Clone(), ErrNoChange
	}
	next := pkg.Clone()
	next.Status = target
	next.UpdatedAt = now
	return next, nil
}
