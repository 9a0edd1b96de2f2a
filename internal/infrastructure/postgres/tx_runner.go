package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products      repository.ProductRepository
	Bins          repository.BinRepository
	Inventory     repository.InventoryRepository
	StoringOrders repository.StoringOrderRepository
	Packages      repository.PackageRepository
	Items         repository.ItemRepository
	PickOrders    repository.PickOrderRepository
	PickSlips     repository.PickSlipRepository
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. La carga
// masiva usa Run; el cierre de binning usa InTx para confirmar el estado del
// paquete junto con el inventario.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := Repos{
		Products:      NewProductRepository(tx),
		Bins:          NewBinRepository(tx),
		Inventory:     NewInventoryRepository(tx),
		StoringOrders: NewStoringOrderRepository(tx),
		Packages:      NewPackageRepository(tx),
		Items:         NewItemRepository(tx),
		PickOrders:    NewPickOrderRepository(tx),
		PickSlips:     NewPickSlipRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// InTx implementa ports.TxRunner sobre Run.
func (r *TxRunner) InTx(ctx context.Context, fn func(ports.TxRepos) error) error {
	return r.Run(ctx, func(repos Repos) error {
		return fn(ports.TxRepos{Packages: repos.Packages, Inventory: repos.Inventory})
	})
}
