package binning_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/application/binning"
	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
	"github.com/jhoicas/wms-rfid-api/pkg/logger"
)

var binner = entity.Principal{EmployeeID: "emp-bin", Role: entity.RoleBinner}

type fixture struct {
	st     *memory.Store
	locker *memory.Locker
	uc     *binning.BinningUseCase
}

// newFixture crea bins A=100, B=50, C=30 y un paquete P-1 listo para asignar.
func newFixture(t *testing.T, unitVolume int64, quantity int) fixture {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	for i, b := range []struct {
		id  string
		vol int64
	}{{"A", 100}, {"B", 50}, {"C", 30}} {
		require.NoError(t, st.Bins().Upsert(ctx, &entity.Bin{
			ID: b.id, AvailabilityVol: decimal.NewFromInt(b.vol),
			CreatedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		}))
	}
	require.NoError(t, st.Products().Upsert(ctx, &entity.Product{ID: "SKU-1", Volume: decimal.NewFromInt(unitVolume)}))
	require.NoError(t, st.Packages().Create(ctx, &entity.Package{
		ID: "P-1", ProductID: "SKU-1", Quantity: quantity,
		RFIDIDs: []string{"T1", "T2"}, Status: entity.PackageReadyForBinAllocation,
	}))
	locker := memory.NewLocker()
	uc := binning.NewBinningUseCase(binning.Repos{
		Packages:  st.Packages(),
		Products:  st.Products(),
		Bins:      st.Bins(),
		Inventory: st.Inventory(),
		Items:     st.Items(),
		Tx:        st,
	}, locker, time.Second, 3, logger.Nop())
	return fixture{st: st, locker: locker, uc: uc}
}

// flakyTx hace fallar la suma de inventario en failBin dentro de la transacción.
type flakyTx struct {
	st      *memory.Store
	failBin string
}

var errStoreTimeout = errors.New("store timeout")

func (f *flakyTx) InTx(ctx context.Context, fn func(ports.TxRepos) error) error {
	return f.st.InTx(ctx, func(r ports.TxRepos) error {
		r.Inventory = &failingAdd{InventoryRepository: r.Inventory, failBin: f.failBin}
		return fn(r)
	})
}

type failingAdd struct {
	repository.InventoryRepository
	failBin string
}

func (f *failingAdd) Add(ctx context.Context, binID, productID string, qty int) error {
	if binID == f.failBin {
		return errStoreTimeout
	}
	return f.InventoryRepository.Add(ctx, binID, productID, qty)
}

func (f fixture) withTx(tx ports.TxRunner) *binning.BinningUseCase {
	return binning.NewBinningUseCase(binning.Repos{
		Packages:  f.st.Packages(),
		Products:  f.st.Products(),
		Bins:      f.st.Bins(),
		Inventory: f.st.Inventory(),
		Items:     f.st.Items(),
		Tx:        tx,
	}, f.locker, time.Second, 3, logger.Nop())
}

func (f fixture) inventory(t *testing.T, bin string) int {
	t.Helper()
	inv, err := f.st.Inventory().Get(context.Background(), bin, "SKU-1")
	require.NoError(t, err)
	if inv == nil {
		return 0
	}
	return inv.Quantity
}

func (f fixture) availability(t *testing.T, id string) string {
	t.Helper()
	b, err := f.st.Bins().GetByID(context.Background(), id)
	require.NoError(t, err)
	return b.AvailabilityVol.String()
}

// ── Allocate ────────────────────────────────────────────────────────────────

func TestAllocate_UnSoloBin(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()

	res, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 8}, res.BinAllocation)
	assert.Equal(t, entity.PackageReadyForBinning, res.Status)
	assert.Equal(t, "20", f.availability(t, "A"))
	assert.Equal(t, "50", f.availability(t, "B"))

	it, err := f.st.Items().GetByID(ctx, "T1")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, entity.PackageReadyForBinning, it.Status)
}

func TestAllocate_EspacioInsuficienteNoMutaBins(t *testing.T) {
	f := newFixture(t, 35, 4)

	_, err := f.uc.Allocate(context.Background(), binner, "P-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientSpace)

	assert.Equal(t, "100", f.availability(t, "A"))
	assert.Equal(t, "50", f.availability(t, "B"))
	assert.Equal(t, "30", f.availability(t, "C"))

	p, _ := f.st.Packages().GetByID(context.Background(), "P-1")
	assert.Equal(t, entity.PackageReadyForBinAllocation, p.Status)
}

func TestAllocate_EstadoIncorrecto(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	_, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)

	_, err = f.uc.Allocate(ctx, binner, "P-1")
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Equal(t, "20", f.availability(t, "A"))
}

func TestAllocate_RolIncorrecto(t *testing.T) {
	f := newFixture(t, 10, 8)
	before, _ := f.st.Packages().GetByID(context.Background(), "P-1")
	_, err := f.uc.Allocate(context.Background(), entity.Principal{EmployeeID: "x", Role: entity.RoleTQEmployee}, "P-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "100", f.availability(t, "A"))
	after, _ := f.st.Packages().GetByID(context.Background(), "P-1")
	assert.Equal(t, before, after)
}

func TestAllocate_LockOcupado(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	release, err := f.locker.Acquire(ctx, binning.AllocationLockKey, time.Minute)
	require.NoError(t, err)
	defer release(ctx)

	_, err = f.uc.Allocate(ctx, binner, "P-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAllocate_ProductoInexistente(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	require.NoError(t, f.st.Packages().Create(ctx, &entity.Package{
		ID: "P-2", ProductID: "SKU-404", Quantity: 1, Status: entity.PackageReadyForBinAllocation,
	}))
	_, err := f.uc.Allocate(ctx, binner, "P-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── CloseBinning ────────────────────────────────────────────────────────────

func TestCloseBinning_AcumulaInventario(t *testing.T) {
	f := newFixture(t, 10, 13)
	ctx := context.Background()

	res, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 10, "B": 3}, res.BinAllocation)

	closed, err := f.uc.CloseBinning(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PackageBinned, closed.Status)

	a, err := f.st.Inventory().Get(ctx, "A", "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 10, a.Quantity)
	b, err := f.st.Inventory().Get(ctx, "B", "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Quantity)

	// Un paquete BINNED no se vuelve a cerrar ni acumula de nuevo.
	_, err = f.uc.CloseBinning(ctx, binner, "P-1")
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	a, _ = f.st.Inventory().Get(ctx, "A", "SKU-1")
	assert.Equal(t, 10, a.Quantity)

	admin := entity.Principal{EmployeeID: "adm", Role: entity.RoleAdmin}
	rows, err := f.uc.ListInventory(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.uc.ListInventory(ctx, binner, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCloseBinning_FalloDeInventarioNoDejaBinned(t *testing.T) {
	f := newFixture(t, 10, 13)
	ctx := context.Background()
	_, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)

	// A se suma y B falla: la transacción entera se descarta.
	_, err = f.withTx(&flakyTx{st: f.st, failBin: "B"}).CloseBinning(ctx, binner, "P-1")
	assert.ErrorIs(t, err, errStoreTimeout)

	p, _ := f.st.Packages().GetByID(ctx, "P-1")
	assert.Equal(t, entity.PackageReadyForBinning, p.Status)
	assert.Equal(t, 0, f.inventory(t, "A"))
	assert.Equal(t, 0, f.inventory(t, "B"))

	// El reintento con el store sano completa el cierre.
	closed, err := f.uc.CloseBinning(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PackageBinned, closed.Status)
	assert.Equal(t, 10, f.inventory(t, "A"))
	assert.Equal(t, 3, f.inventory(t, "B"))
}

func TestCloseBinning_RepetidoNoCambiaInventario(t *testing.T) {
	f := newFixture(t, 10, 13)
	ctx := context.Background()
	_, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	_, err = f.uc.CloseBinning(ctx, binner, "P-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.uc.CloseBinning(ctx, binner, "P-1")
		assert.ErrorIs(t, err, domain.ErrPrecondition)
	}
	assert.Equal(t, 10, f.inventory(t, "A"))
	assert.Equal(t, 3, f.inventory(t, "B"))
}

func TestCloseBinning_RolIncorrectoNoMuta(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	_, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	before, _ := f.st.Packages().GetByID(ctx, "P-1")

	_, err = f.uc.CloseBinning(ctx, entity.Principal{EmployeeID: "x", Role: entity.RolePicker}, "P-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	after, _ := f.st.Packages().GetByID(ctx, "P-1")
	assert.Equal(t, before, after)
	assert.Equal(t, 0, f.inventory(t, "A"))
}

// ── Reservas ────────────────────────────────────────────────────────────────

func TestAllocate_ReintentoLiberaReservasHuerfanas(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()

	// Un intento anterior reservó A y se cortó antes de guardar el paquete.
	require.NoError(t, f.st.Bins().Reserve(ctx, "P-1", "A", decimal.NewFromInt(80)))
	assert.Equal(t, "20", f.availability(t, "A"))

	res, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 8}, res.BinAllocation)
	assert.Equal(t, "20", f.availability(t, "A"))
	assert.Equal(t, "50", f.availability(t, "B"))
}

func TestAllocate_FalloAlGuardarDevuelveVolumen(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	uc := binning.NewBinningUseCase(binning.Repos{
		Packages:  &failingUpdate{PackageRepository: f.st.Packages()},
		Products:  f.st.Products(),
		Bins:      f.st.Bins(),
		Inventory: f.st.Inventory(),
		Items:     f.st.Items(),
		Tx:        f.st,
	}, f.locker, time.Second, 3, logger.Nop())

	_, err := uc.Allocate(ctx, binner, "P-1")
	assert.ErrorIs(t, err, errStoreTimeout)
	assert.Equal(t, "100", f.availability(t, "A"))

	// Sin reservas colgadas el siguiente intento planifica sobre la disponibilidad real.
	_, err = f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)
	assert.Equal(t, "20", f.availability(t, "A"))
}

type failingUpdate struct {
	repository.PackageRepository
}

func (f *failingUpdate) Update(context.Context, *entity.Package) error { return errStoreTimeout }

// ── Items ───────────────────────────────────────────────────────────────────

func TestGetItem_AlcancePorRol(t *testing.T) {
	f := newFixture(t, 10, 8)
	ctx := context.Background()
	_, err := f.uc.Allocate(ctx, binner, "P-1")
	require.NoError(t, err)

	it, err := f.uc.GetItem(ctx, binner, "T1")
	require.NoError(t, err)
	assert.Equal(t, "P-1", it.PackageID)
	assert.Equal(t, entity.PackageReadyForBinning, it.Status)

	admin := entity.Principal{EmployeeID: "adm", Role: entity.RoleAdmin}
	_, err = f.uc.GetItem(ctx, admin, "T2")
	assert.NoError(t, err)

	// Otro binner no ve etiquetas de paquetes ajenos.
	_, err = f.uc.GetItem(ctx, entity.Principal{EmployeeID: "emp-otro", Role: entity.RoleBinner}, "T1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetItem(ctx, admin, "T-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetItem(ctx, entity.Principal{EmployeeID: "p", Role: entity.RolePicker}, "T1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
