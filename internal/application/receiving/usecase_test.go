package receiving_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/receiving"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

var (
	receiver = entity.Principal{EmployeeID: "emp-rx", Role: entity.RoleReceiver}
	admin    = entity.Principal{EmployeeID: "emp-admin", Role: entity.RoleAdmin}
)

func seed(t *testing.T) (*memory.Store, *receiving.ReceivingUseCase) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, st.StoringOrders().Create(ctx, &entity.StoringOrder{
		ID: "SO-1", ReceiverID: receiver.EmployeeID,
		InvoiceNumber: "INV-1", BillOfEntryID: "BOE-1", AirwayBillNumber: "AWB-1",
		PackageQuantity: 2, Status: entity.StoringOrderCreated,
		PackageIDs: []string{"P-1", "P-2"}, CreatedAt: created,
	}))
	for _, id := range []string{"P-1", "P-2"} {
		require.NoError(t, st.Packages().Create(ctx, &entity.Package{
			ID: id, StoringOrderID: "SO-1", ProductID: "SKU-1", Quantity: 3,
			Status: entity.PackageCreated, CreatedAt: created,
		}))
	}
	return st, receiving.NewReceivingUseCase(st.StoringOrders(), st.Packages(), 3, logger.Nop())
}

func matching() dto.ReceiveOrderRequest {
	return dto.ReceiveOrderRequest{InvoiceNumber: "INV-1", BillOfEntryID: "BOE-1", AirwayBillNumber: "AWB-1", Quantity: 2}
}

// ── Receive ─────────────────────────────────────────────────────────────────

func TestReceive_CoincidePropagaReadyForTQ(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()

	res, err := uc.Receive(ctx, receiver, "SO-1", matching())
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderReceived, res.Status)
	assert.NotNil(t, res.ReceivedDate)

	for _, id := range []string{"P-1", "P-2"} {
		p, err := st.Packages().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.PackageReadyForTQ, p.Status, id)
	}
}

func TestReceive_DiscrepanciaPropagaInspectionFailed(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()

	in := matching()
	in.InvoiceNumber = "INV-X"
	in.Quantity = 3
	res, err := uc.Receive(ctx, receiver, "SO-1", in)
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderInspectionFailed, res.Status)
	assert.Equal(t, "Mismatches: invoice_number,package_quantity", res.DiscrepancyDetail)

	p, err := st.Packages().GetByID(ctx, "P-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PackageInspectionFailed, p.Status)

	// Sin salida desde INSPECTION-FAILED salvo editar la discrepancia.
	_, err = uc.Receive(ctx, receiver, "SO-1", matching())
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	upd, err := uc.UpdateDiscrepancy(ctx, receiver, "SO-1", dto.UpdateDiscrepancyRequest{DiscrepancyDetail: "factura corregida pendiente"})
	require.NoError(t, err)
	assert.Equal(t, "factura corregida pendiente", upd.DiscrepancyDetail)
	assert.Equal(t, entity.StoringOrderInspectionFailed, upd.Status)
}

func TestReceive_RepetidoEsIdempotente(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()

	_, err := uc.Receive(ctx, receiver, "SO-1", matching())
	require.NoError(t, err)
	before, _ := st.StoringOrders().GetByID(ctx, "SO-1")

	res, err := uc.Receive(ctx, receiver, "SO-1", matching())
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderReceived, res.Status)

	after, _ := st.StoringOrders().GetByID(ctx, "SO-1")
	assert.Equal(t, before.Version, after.Version)
}

func TestReceive_RolIncorrectoNoMuta(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()

	_, err := uc.Receive(ctx, entity.Principal{EmployeeID: "emp-9", Role: entity.RolePicker}, "SO-1", matching())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// El rol se verifica antes de buscar: una orden inexistente también da 403.
	_, err = uc.Receive(ctx, entity.Principal{EmployeeID: "emp-9", Role: entity.RolePicker}, "NO-EXISTE", matching())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	o, _ := st.StoringOrders().GetByID(ctx, "SO-1")
	assert.Equal(t, entity.StoringOrderCreated, o.Status)
}

func TestUpdateDiscrepancyYValidityCheck_RolIncorrectoNoMuta(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()
	_, err := uc.Receive(ctx, receiver, "SO-1", matching())
	require.NoError(t, err)
	before, _ := st.StoringOrders().GetByID(ctx, "SO-1")

	tq := entity.Principal{EmployeeID: "emp-tq", Role: entity.RoleTQEmployee}
	_, err = uc.UpdateDiscrepancy(ctx, tq, "SO-1", dto.UpdateDiscrepancyRequest{DiscrepancyDetail: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.ValidityCheck(ctx, tq, "SO-1", dto.ValidityCheckRequest{AirwayBillNumber: "AWB-1", BillOfEntryID: "BOE-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	after, _ := st.StoringOrders().GetByID(ctx, "SO-1")
	assert.Equal(t, before, after)
}

func TestReceive_OtroReceptor(t *testing.T) {
	_, uc := seed(t)
	_, err := uc.Receive(context.Background(), entity.Principal{EmployeeID: "emp-otro", Role: entity.RoleReceiver}, "SO-1", matching())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReceive_NoEncontrada(t *testing.T) {
	_, uc := seed(t)
	_, err := uc.Receive(context.Background(), receiver, "SO-404", matching())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	_, uc := seed(t)
	_, err := uc.Receive(context.Background(), receiver, "SO-1", dto.ReceiveOrderRequest{Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── ValidityCheck y List ────────────────────────────────────────────────────

func TestValidityCheck(t *testing.T) {
	_, uc := seed(t)
	ctx := context.Background()

	_, err := uc.ValidityCheck(ctx, admin, "SO-1", dto.ValidityCheckRequest{AirwayBillNumber: "AWB-1", BillOfEntryID: "BOE-1"})
	assert.ErrorIs(t, err, domain.ErrPrecondition, "la orden aún no está RECEIVED")

	_, err = uc.Receive(ctx, receiver, "SO-1", matching())
	require.NoError(t, err)

	_, err = uc.ValidityCheck(ctx, admin, "SO-1", dto.ValidityCheckRequest{AirwayBillNumber: "AWB-9", BillOfEntryID: "BOE-1"})
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	res, err := uc.ValidityCheck(ctx, admin, "SO-1", dto.ValidityCheckRequest{AirwayBillNumber: "AWB-1", BillOfEntryID: "BOE-1"})
	require.NoError(t, err)
	assert.Equal(t, entity.StoringOrderTQ, res.Status)
}

func TestList_AdminVeTodoReceptorSoloLoSuyo(t *testing.T) {
	st, uc := seed(t)
	ctx := context.Background()
	require.NoError(t, st.StoringOrders().Create(ctx, &entity.StoringOrder{ID: "SO-2", ReceiverID: "emp-otro", Status: entity.StoringOrderCreated}))

	all, err := uc.List(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.List(ctx, receiver, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "SO-1", own[0].ID)

	_, err = uc.List(ctx, entity.Principal{EmployeeID: "x", Role: entity.RoleBinner}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
