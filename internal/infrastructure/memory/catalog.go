package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Upsert(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// BinRepo implementa repository.BinRepository.
type BinRepo struct{ s *Store }

func (r *BinRepo) Upsert(_ context.Context, b *entity.Bin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.bins[b.ID] = &c
	return nil
}

func (r *BinRepo) GetByID(_ context.Context, id string) (*entity.Bin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bins[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *BinRepo) List(_ context.Context) ([]*entity.Bin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Bin, 0, len(r.s.bins))
	for _, b := range r.s.bins {
		c := *b
		out = append(out, &c)
	}
	oldestFirst(out, func(b *entity.Bin) time.Time { return b.CreatedAt }, func(b *entity.Bin) string { return b.ID })
	return out, nil
}

func (r *BinRepo) Reserve(_ context.Context, packageID, binID string, vol decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bins[binID]
	if !ok {
		return fmt.Errorf("bin %s: %w", binID, domain.ErrNotFound)
	}
	if _, done := r.s.reservations[packageID][binID]; done {
		return nil
	}
	if b.AvailabilityVol.LessThan(vol) {
		return fmt.Errorf("bin %s: %w", binID, domain.ErrInsufficientSpace)
	}
	b.AvailabilityVol = b.AvailabilityVol.Sub(vol)
	b.Version++
	b.UpdatedAt = r.s.now()
	if r.s.reservations[packageID] == nil {
		r.s.reservations[packageID] = map[string]decimal.Decimal{}
	}
	r.s.reservations[packageID][binID] = vol
	return nil
}

func (r *BinRepo) ReleasePackage(_ context.Context, packageID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for binID, vol := range r.s.reservations[packageID] {
		if b, ok := r.s.bins[binID]; ok {
			b.AvailabilityVol = b.AvailabilityVol.Add(vol)
			b.Version++
			b.UpdatedAt = r.s.now()
		}
	}
	delete(r.s.reservations, packageID)
	return nil
}

// InventoryRepo implementa repository.InventoryRepository.
type InventoryRepo struct{ s *Store }

func (r *InventoryRepo) Get(_ context.Context, binID, productID string) (*entity.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.inventory[[2]string{binID, productID}]
	if !ok {
		return nil, nil
	}
	c := *inv
	return &c, nil
}

func (r *InventoryRepo) Add(_ context.Context, binID, productID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]string{binID, productID}
	inv, ok := r.s.inventory[key]
	if !ok {
		inv = &entity.Inventory{BinID: binID, ProductID: productID}
		r.s.inventory[key] = inv
	}
	inv.Quantity += qty
	inv.UpdatedAt = r.s.now()
	return nil
}

func (r *InventoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Inventory, 0, len(r.s.inventory))
	for _, inv := range r.s.inventory {
		c := *inv
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BinID != out[j].BinID {
			return out[i].BinID < out[j].BinID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return page(out, limit, offset), nil
}

// APIKeyRepo implementa repository.APIKeyRepository.
type APIKeyRepo struct{ s *Store }

func (r *APIKeyRepo) Create(_ context.Context, k *entity.APIKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.apiKeys[k.ID]; ok {
		return fmt.Errorf("api key %s: %w", k.ID, domain.ErrDuplicate)
	}
	c := *k
	r.s.apiKeys[k.ID] = &c
	return nil
}

func (r *APIKeyRepo) GetByID(_ context.Context, id string) (*entity.APIKey, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k, ok := r.s.apiKeys[id]
	if !ok {
		return nil, nil
	}
	c := *k
	return &c, nil
}
