package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/infrastructure/memory"
)

func TestPackageRepo_UpdateEsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Packages()
	require.NoError(t, repo.Create(ctx, &entity.Package{ID: "p1", Status: entity.PackageCreated}))

	a, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)

	a.Status = entity.PackageReadyForTQ
	require.NoError(t, repo.Update(ctx, a))
	assert.EqualValues(t, 1, a.Version, "la versión avanza en éxito")

	b.Status = entity.PackageInspectionFailed
	err = repo.Update(ctx, b)
	assert.ErrorIs(t, err, domain.ErrConflict, "una copia obsoleta no puede escribir")

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, entity.PackageReadyForTQ, got.Status)
}

func TestPackageRepo_GetByIDInexistente(t *testing.T) {
	got, err := memory.New().Packages().GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBinRepo_ReserveCondicionalPorPaquete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Bins()
	require.NoError(t, repo.Upsert(ctx, &entity.Bin{ID: "A", AvailabilityVol: decimal.NewFromInt(10)}))

	require.NoError(t, repo.Reserve(ctx, "P-1", "A", decimal.NewFromInt(8)))
	// La misma reserva repetida no descuenta otra vez.
	require.NoError(t, repo.Reserve(ctx, "P-1", "A", decimal.NewFromInt(8)))
	assert.ErrorIs(t, repo.Reserve(ctx, "P-2", "A", decimal.NewFromInt(3)), domain.ErrInsufficientSpace)
	assert.ErrorIs(t, repo.Reserve(ctx, "P-2", "Z", decimal.NewFromInt(1)), domain.ErrNotFound)

	bin, err := repo.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, bin.AvailabilityVol.Equal(decimal.NewFromInt(2)))

	require.NoError(t, repo.ReleasePackage(ctx, "P-1"))
	require.NoError(t, repo.ReleasePackage(ctx, "P-1"))
	bin, err = repo.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, bin.AvailabilityVol.Equal(decimal.NewFromInt(10)))
}

func TestInTx_RevierteTodoSiFalla(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Packages().Create(ctx, &entity.Package{ID: "P-1", Quantity: 1, Status: entity.PackageBinning}))
	require.NoError(t, st.Inventory().Add(ctx, "A", "SKU-1", 4))

	boom := errors.New("fallo")
	err := st.InTx(ctx, func(r ports.TxRepos) error {
		p, _ := r.Packages.GetByID(ctx, "P-1")
		p.Status = entity.PackageBinned
		require.NoError(t, r.Packages.Update(ctx, p))
		require.NoError(t, r.Inventory.Add(ctx, "A", "SKU-1", 1))
		require.NoError(t, r.Inventory.Add(ctx, "B", "SKU-1", 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := st.Packages().GetByID(ctx, "P-1")
	assert.Equal(t, entity.PackageBinning, p.Status)
	assert.Equal(t, int64(0), p.Version)
	a, _ := st.Inventory().Get(ctx, "A", "SKU-1")
	assert.Equal(t, 4, a.Quantity)
	b, _ := st.Inventory().Get(ctx, "B", "SKU-1")
	assert.Nil(t, b)
}

func TestInTx_ConfirmaSiNoHayError(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.InTx(ctx, func(r ports.TxRepos) error {
		return r.Inventory.Add(ctx, "A", "SKU-1", 2)
	}))
	a, _ := st.Inventory().Get(ctx, "A", "SKU-1")
	require.NotNil(t, a)
	assert.Equal(t, 2, a.Quantity)
}

func TestInventoryRepo_AddAcumula(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Inventory()
	require.NoError(t, repo.Add(ctx, "A", "prod", 2))
	require.NoError(t, repo.Add(ctx, "A", "prod", 3))

	inv, err := repo.Get(ctx, "A", "prod")
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Quantity)
}

// ── Locker ──────────────────────────────────────────────────────────────────

func TestLocker_Exclusivo(t *testing.T) {
	l := memory.NewLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "lock:bin-allocation", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "lock:bin-allocation", time.Minute)
	assert.ErrorIs(t, err, ports.ErrLockNotObtained)

	require.NoError(t, release(ctx))
	release2, err := l.Acquire(ctx, "lock:bin-allocation", time.Minute)
	require.NoError(t, err)

	// Liberar un lease viejo no suelta el nuevo.
	require.NoError(t, release(ctx))
	_, err = l.Acquire(ctx, "lock:bin-allocation", time.Minute)
	assert.ErrorIs(t, err, ports.ErrLockNotObtained)
	require.NoError(t, release2(ctx))
}

func TestLocker_Expira(t *testing.T) {
	l := memory.NewLocker()
	ctx := context.Background()
	_, err := l.Acquire(ctx, "k", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = l.Acquire(ctx, "k", time.Minute)
	assert.NoError(t, err)
}
