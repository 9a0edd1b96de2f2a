package memory

import (
	"context"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// InTx implementa ports.TxRunner. Los repos entregados a fn guardan el valor
// previo de cada fila antes de escribirla; si fn falla se restauran.
// Las transacciones se serializan entre sí, no frente a escrituras sueltas.
func (s *Store) InTx(_ context.Context, fn func(ports.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{
		s:         s,
		packages:  map[string]*entity.Package{},
		inventory: map[[2]string]*entity.Inventory{},
	}
	err := fn(ports.TxRepos{
		Packages:  &txPackageRepo{PackageRepo: &PackageRepo{s}, j: j},
		Inventory: &txInventoryRepo{InventoryRepo: &InventoryRepo{s}, j: j},
	})
	if err != nil {
		j.rollback()
	}
	return err
}

// journal guarda la primera versión vista de cada fila; nil indica que no existía.
type journal struct {
	s         *Store
	packages  map[string]*entity.Package
	inventory map[[2]string]*entity.Inventory
}

func (j *journal) rememberPackage(id string) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	if _, ok := j.packages[id]; !ok {
		j.packages[id] = j.s.packages[id].Clone()
	}
}

func (j *journal) rememberInventory(key [2]string) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	if _, ok := j.inventory[key]; ok {
		return
	}
	if cur, ok := j.s.inventory[key]; ok {
		c := *cur
		j.inventory[key] = &c
		return
	}
	j.inventory[key] = nil
}

func (j *journal) rollback() {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	for id, p := range j.packages {
		if p == nil {
			delete(j.s.packages, id)
			continue
		}
		j.s.packages[id] = p
	}
	for key, inv := range j.inventory {
		if inv == nil {
			delete(j.s.inventory, key)
			continue
		}
		j.s.inventory[key] = inv
	}
}

type txPackageRepo struct {
	*PackageRepo
	j *journal
}

func (r *txPackageRepo) Create(ctx context.Context, p *entity.Package) error {
	r.j.rememberPackage(p.ID)
	return r.PackageRepo.Create(ctx, p)
}

func (r *txPackageRepo) Update(ctx context.Context, p *entity.Package) error {
	r.j.rememberPackage(p.ID)
	return r.PackageRepo.Update(ctx, p)
}

type txInventoryRepo struct {
	*InventoryRepo
	j *journal
}

func (r *txInventoryRepo) Add(ctx context.Context, binID, productID string, qty int) error {
	r.j.rememberInventory([2]string{binID, productID})
	return r.InventoryRepo.Add(ctx, binID, productID, qty)
}
