package ports

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Packages  repository.PackageRepository
	Inventory repository.InventoryRepository
}

// TxRunner ejecuta fn de forma atómica: si fn devuelve error no queda nada escrito.
// Se usa donde un cambio de estado y el inventario deben confirmarse juntos.
type TxRunner interface {
	InTx(ctx context.Context, fn func(TxRepos) error) error
}
