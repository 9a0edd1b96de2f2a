package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newOrder() *entity.StoringOrder {
	return &entity.StoringOrder{
		ID:               "so-1",
		ReceiverID:       "emp-r1",
		InvoiceNumber:    "INV-100",
		BillOfEntryID:    "BOE-7",
		AirwayBillNumber: "AWB-55",
		PackageQuantity:  3,
		Status:           entity.StoringOrderCreated,
		PackageIDs:       []string{"p1", "p2", "p3"},
	}
}

func matchingInput() lifecycle.ReceiveInput {
	return lifecycle.ReceiveInput{
		InvoiceNumber:    "INV-100",
		BillOfEntryID:    "BOE-7",
		AirwayBillNumber: "AWB-55",
		PackageQuantity:  3,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_TodoCoincide_PasaARecibida(t *testing.T) {
	order := newOrder()
	next, err := lifecycle.Receive(order, matchingInput(), now)
	require.NoError(t, err)

	assert.Equal(t, entity.StoringOrderReceived, next.Status)
	assert.Empty(t, next.DiscrepancyDetail)
	require.NotNil(t, next.ReceivedDate)
	assert.Equal(t, entity.StoringOrderCreated, order.Status, "la entrada no debe mutarse")
}

func TestReceive_Discrepancias_ListaTodosLosCampos(t *testing.T) {
	in := matchingInput()
	in.InvoiceNumber = "INV-999"
	in.PackageQuantity = 2

	next, err := lifecycle.Receive(newOrder(), in, now)
	require.NoError(t, err)

	assert.Equal(t, entity.StoringOrderInspectionFailed, next.Status)
	assert.Equal(t, "Mismatches: invoice_number,package_quantity", next.DiscrepancyDetail)
	assert.Nil(t, next.ReceivedDate)
}

func TestReceive_OrdenYaRecibida_ReintentoSinCambios(t *testing.T) {
	order := newOrder()
	order.Status = entity.StoringOrderReceived

	next, err := lifecycle.Receive(order, matchingInput(), now)
	assert.ErrorIs(t, err, lifecycle.ErrNoChange)
	assert.Equal(t, entity.StoringOrderReceived, next.Status)
}

func TestReceive_InspeccionFallida_NoAdmiteNuevoRecibo(t *testing.T) {
	order := newOrder()
	order.Status = entity.StoringOrderInspectionFailed

	_, err := lifecycle.Receive(order, matchingInput(), now)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Contains(t, err.Error(), "INSPECTION-FAILED")
}

func TestUpdateDiscrepancy_SoloEnInspeccionFallida(t *testing.T) {
	order := newOrder()
	_, err := lifecycle.UpdateDiscrepancy(order, "faltan cajas", now)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	order.Status = entity.StoringOrderInspectionFailed
	next, err := lifecycle.UpdateDiscrepancy(order, "faltan cajas", now)
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderInspectionFailed, next.Status)
	assert.Equal(t, "faltan cajas", next.DiscrepancyDetail)

	_, err = lifecycle.UpdateDiscrepancy(order, "  ", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidityCheck(t *testing.T) {
	order := newOrder()
	order.Status = entity.StoringOrderReceived

	_, err := lifecycle.ValidityCheck(order, "AWB-00", "BOE-7", now)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	next, err := lifecycle.ValidityCheck(order, "AWB-55", "BOE-7", now)
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderTQ, next.Status)

	_, err = lifecycle.ValidityCheck(next, "AWB-55", "BOE-7", now)
	assert.True(t, errors.Is(err, lifecycle.ErrNoChange))
}

func TestCascadePackage(t *testing.T) {
	pkg := &entity.Package{ID: "p1", Status: entity.PackageCreated}

	next, err := lifecycle.CascadePackage(pkg, entity.StoringOrderReceived, now)
	require.NoError(t, err)
	assert.Equal(t, entity.PackageReadyForTQ, next.Status)

	next, err = lifecycle.CascadePackage(pkg, entity.StoringOrderInspectionFailed, now)
	require.NoError(t, err)
	assert.Equal(t, entity.PackageInspectionFailed, next.Status)

	advanced := &entity.Package{ID: "p2", Status: entity.PackageTQChecking}
	_, err = lifecycle.CascadePackage(advanced, entity.StoringOrderReceived, now)
	assert.ErrorIs(t, err, lifecycle.ErrNoChange, "un paquete que ya avanzó no se toca")
}
