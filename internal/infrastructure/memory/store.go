// Package memory implementa los puertos de persistencia en memoria con la misma
// semántica de actualización condicional (Version) que el adaptador Postgres.
// Se usa en pruebas de casos de uso y en ejecuciones locales sin base de datos.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

// Store agrupa todas las tablas bajo un único mutex. txMu serializa InTx.
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex
	products      map[string]*entity.Product
	bins          map[string]*entity.Bin
	reservations  map[string]map[string]decimal.Decimal
	inventory     map[[2]string]*entity.Inventory
	apiKeys       map[string]*entity.APIKey
	storingOrders map[string]*entity.StoringOrder
	packages      map[string]*entity.Package
	items         map[string]*entity.Item
	pickOrders    map[string]*entity.PickOrder
	pickSlips     map[string]*entity.PickSlip
	now           func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products:      map[string]*entity.Product{},
		bins:          map[string]*entity.Bin{},
		reservations:  map[string]map[string]decimal.Decimal{},
		inventory:     map[[2]string]*entity.Inventory{},
		apiKeys:       map[string]*entity.APIKey{},
		storingOrders: map[string]*entity.StoringOrder{},
		packages:      map[string]*entity.Package{},
		items:         map[string]*entity.Item{},
		pickOrders:    map[string]*entity.PickOrder{},
		pickSlips:     map[string]*entity.PickSlip{},
		now:           time.Now,
	}
}

func (s *Store) Products() *ProductRepo           { return &ProductRepo{s} }
func (s *Store) Bins() *BinRepo                   { return &BinRepo{s} }
func (s *Store) Inventory() *InventoryRepo        { return &InventoryRepo{s} }
func (s *Store) APIKeys() *APIKeyRepo             { return &APIKeyRepo{s} }
func (s *Store) StoringOrders() *StoringOrderRepo { return &StoringOrderRepo{s} }
func (s *Store) Packages() *PackageRepo           { return &PackageRepo{s} }
func (s *Store) Items() *ItemRepo                 { return &ItemRepo{s} }
func (s *Store) PickOrders() *PickOrderRepo       { return &PickOrderRepo{s} }
func (s *Store) PickSlips() *PickSlipRepo         { return &PickSlipRepo{s} }

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.BinRepository          = (*BinRepo)(nil)
	_ repository.InventoryRepository    = (*InventoryRepo)(nil)
	_ repository.APIKeyRepository       = (*APIKeyRepo)(nil)
	_ repository.StoringOrderRepository = (*StoringOrderRepo)(nil)
	_ repository.PackageRepository      = (*PackageRepo)(nil)
	_ repository.ItemRepository         = (*ItemRepo)(nil)
	_ repository.PickOrderRepository    = (*PickOrderRepo)(nil)
	_ repository.PickSlipRepository     = (*PickSlipRepo)(nil)
	_ ports.TxRunner                    = (*Store)(nil)
)

// page aplica limit/offset sobre un slice ya ordenado. limit <= 0 significa sin límite.
func page[T any](in []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// oldestFirst ordena por fecha de creación y luego por id.
func oldestFirst[T any](in []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(in, func(i, j int) bool {
		ci, cj := created(in[i]), created(in[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(in[i]) < id(in[j])
	})
}
