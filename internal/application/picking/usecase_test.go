package picking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/picking"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

var base = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func picker(n int) entity.Principal {
	return entity.Principal{EmployeeID: fmt.Sprintf("picker-%d", n), Role: entity.RolePicker}
}

// seedSlip crea un slip en PICKING con n órdenes, una por picker.
func seedSlip(t *testing.T, st *memory.Store, slipID string, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.PickSlips().Create(ctx, &entity.PickSlip{ID: slipID, PackingZone: "Z1", Status: entity.PickSlipPicking, CreatedAt: base}))
	for i := 0; i < n; i++ {
		require.NoError(t, st.PickOrders().Create(ctx, &entity.PickOrder{
			ID: fmt.Sprintf("%s-PO-%d", slipID, i), PickSlipID: slipID, PickerID: picker(i).EmployeeID,
			ProductID: "SKU-1", BinID: "A", Quantity: 1, Status: entity.PickOrderReadyForPicking,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func newUseCase(st *memory.Store) *picking.PickingUseCase {
	return picking.NewPickingUseCase(st.PickOrders(), st.PickSlips(), 10, logger.Nop())
}

// ── NextPickOrder ───────────────────────────────────────────────────────────

func TestNextPickOrder_MasAntigua(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	require.NoError(t, st.PickOrders().Create(ctx, &entity.PickOrder{ID: "PO-nueva", PickerID: "picker-0", Status: entity.PickOrderReadyForPicking, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, st.PickOrders().Create(ctx, &entity.PickOrder{ID: "PO-vieja", PickerID: "picker-0", Status: entity.PickOrderReadyForPicking, CreatedAt: base}))
	require.NoError(t, st.PickOrders().Create(ctx, &entity.PickOrder{ID: "PO-cerrada", PickerID: "picker-0", Status: entity.PickOrderClosed, CreatedAt: base.Add(-time.Hour)}))
	uc := newUseCase(st)

	o, err := uc.NextPickOrder(ctx, picker(0))
	require.NoError(t, err)
	assert.Equal(t, "PO-vieja", o.ID)

	_, err = uc.NextPickOrder(ctx, picker(5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── ClosePickOrder ──────────────────────────────────────────────────────────

func TestClosePickOrder_UltimaCierraElSlip(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 2)
	uc := newUseCase(st)
	ctx := context.Background()

	res, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.NoError(t, err)
	assert.Equal(t, entity.PickOrderClosed, res.PickOrder.Status)
	assert.False(t, res.SlipReadyForPacking)

	res, err = uc.ClosePickOrder(ctx, picker(1), "PS-1-PO-1")
	require.NoError(t, err)
	assert.True(t, res.SlipReadyForPacking)

	slip, _ := st.PickSlips().GetByID(ctx, "PS-1")
	assert.Equal(t, entity.PickSlipReadyForPacking, slip.Status)
	assert.NotNil(t, slip.ReadyForPackingDate)
}

func TestClosePickOrder_OtroPicker(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 1)
	_, err := newUseCase(st).ClosePickOrder(context.Background(), picker(3), "PS-1-PO-0")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClosePickOrder_YaCerrada(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 1)
	uc := newUseCase(st)
	ctx := context.Background()
	_, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.NoError(t, err)
	res, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.NoError(t, err)
	assert.Equal(t, entity.PickOrderClosed, res.PickOrder.Status)
	// La cascada ya ocurrió en el primer cierre.
	assert.False(t, res.SlipReadyForPacking)

	slip, _ := st.PickSlips().GetByID(ctx, "PS-1")
	assert.Equal(t, int64(1), slip.Version)
}

// flakySlips falla las primeras actualizaciones del slip.
type flakySlips struct {
	repository.PickSlipRepository
	fails int
}

func (f *flakySlips) Update(ctx context.Context, s *entity.PickSlip) error {
	if f.fails > 0 {
		f.fails--
		return errors.New("store timeout")
	}
	return f.PickSlipRepository.Update(ctx, s)
}

func TestClosePickOrder_ReintentoTrasFalloDelSlip(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 1)
	ctx := context.Background()
	uc := picking.NewPickingUseCase(st.PickOrders(), &flakySlips{PickSlipRepository: st.PickSlips(), fails: 1}, 10, logger.Nop())

	_, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.Error(t, err)
	o, _ := st.PickOrders().GetByID(ctx, "PS-1-PO-0")
	assert.Equal(t, entity.PickOrderClosed, o.Status)
	slip, _ := st.PickSlips().GetByID(ctx, "PS-1")
	assert.Equal(t, entity.PickSlipPicking, slip.Status)

	res, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.NoError(t, err)
	assert.True(t, res.SlipReadyForPacking)
	slip, _ = st.PickSlips().GetByID(ctx, "PS-1")
	assert.Equal(t, entity.PickSlipReadyForPacking, slip.Status)
}

func TestClosePickOrder_CerradaPorOtroPickerSigueProhibida(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 2)
	uc := newUseCase(st)
	ctx := context.Background()
	_, err := uc.ClosePickOrder(ctx, picker(0), "PS-1-PO-0")
	require.NoError(t, err)

	_, err = uc.ClosePickOrder(ctx, picker(1), "PS-1-PO-0")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClosePickOrder_RolIncorrecto(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 1)
	_, err := newUseCase(st).ClosePickOrder(context.Background(), entity.Principal{EmployeeID: "picker-0", Role: entity.RolePacker}, "PS-1-PO-0")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	o, _ := st.PickOrders().GetByID(context.Background(), "PS-1-PO-0")
	assert.Equal(t, entity.PickOrderReadyForPicking, o.Status)
	assert.Equal(t, int64(0), o.Version)
	slip, _ := st.PickSlips().GetByID(context.Background(), "PS-1")
	assert.Equal(t, int64(0), slip.Version)
}

func TestClosePickOrder_ConcurrenteUnaSolaCascada(t *testing.T) {
	const n = 8
	st := memory.New()
	seedSlip(t, st, "PS-1", n)
	uc := newUseCase(st)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		cascades atomic.Int32
		failures atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := uc.ClosePickOrder(ctx, picker(i), fmt.Sprintf("PS-1-PO-%d", i))
			if err != nil {
				failures.Add(1)
				return
			}
			if res.SlipReadyForPacking {
				cascades.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Zero(t, failures.Load())
	assert.Equal(t, int32(1), cascades.Load())
	slip, _ := st.PickSlips().GetByID(ctx, "PS-1")
	assert.Equal(t, entity.PickSlipReadyForPacking, slip.Status)
	assert.Equal(t, int64(1), slip.Version)
}

func TestListPickSlips_SoloAdmin(t *testing.T) {
	st := memory.New()
	seedSlip(t, st, "PS-1", 1)
	uc := newUseCase(st)

	list, err := uc.ListPickSlips(context.Background(), entity.Principal{EmployeeID: "a", Role: entity.RoleAdmin}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListPickSlips(context.Background(), picker(0), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
