package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// StoringOrderRepo implementa repository.StoringOrderRepository.
type StoringOrderRepo struct{ s *Store }

func (r *StoringOrderRepo) Create(_ context.Context, o *entity.StoringOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.storingOrders[o.ID]; ok {
		return fmt.Errorf("storing order %s: %w", o.ID, domain.ErrDuplicate)
	}
	r.s.storingOrders[o.ID] = o.Clone()
	return nil
}

func (r *StoringOrderRepo) GetByID(_ context.Context, id string) (*entity.StoringOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.storingOrders[id].Clone(), nil
}

func (r *StoringOrderRepo) Update(_ context.Context, o *entity.StoringOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.storingOrders[o.ID]
	if !ok {
		return fmt.Errorf("storing order %s: %w", o.ID, domain.ErrNotFound)
	}
	if cur.Version != o.Version {
		return fmt.Errorf("storing order %s: %w", o.ID, domain.ErrConflict)
	}
	o.Version++
	r.s.storingOrders[o.ID] = o.Clone()
	return nil
}

func (r *StoringOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.StoringOrder, error) {
	return r.filter(func(*entity.StoringOrder) bool { return true }, limit, offset), nil
}

func (r *StoringOrderRepo) ListByReceiver(_ context.Context, receiverID string, limit, offset int) ([]*entity.StoringOrder, error) {
	return r.filter(func(o *entity.StoringOrder) bool { return o.ReceiverID == receiverID }, limit, offset), nil
}

func (r *StoringOrderRepo) filter(keep func(*entity.StoringOrder) bool, limit, offset int) []*entity.StoringOrder {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StoringOrder
	for _, o := range r.s.storingOrders {
		if keep(o) {
			out = append(out, o.Clone())
		}
	}
	oldestFirst(out, func(o *entity.StoringOrder) time.Time { return o.CreatedAt }, func(o *entity.StoringOrder) string { return o.ID })
	return page(out, limit, offset)
}

// PackageRepo implementa repository.PackageRepository.
type PackageRepo struct{ s *Store }

func (r *PackageRepo) Create(_ context.Context, p *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packages[p.ID]; ok {
		return fmt.Errorf("package %s: %w", p.ID, domain.ErrDuplicate)
	}
	r.s.packages[p.ID] = p.Clone()
	return nil
}

func (r *PackageRepo) GetByID(_ context.Context, id string) (*entity.Package, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.packages[id].Clone(), nil
}

func (r *PackageRepo) Update(_ context.Context, p *entity.Package) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.packages[p.ID]
	if !ok {
		return fmt.Errorf("package %s: %w", p.ID, domain.ErrNotFound)
	}
	if cur.Version != p.Version {
		return fmt.Errorf("package %s: %w", p.ID, domain.ErrConflict)
	}
	p.Version++
	r.s.packages[p.ID] = p.Clone()
	return nil
}

func (r *PackageRepo) ListByStoringOrder(_ context.Context, storingOrderID string) ([]*entity.Package, error) {
	return r.filter(func(p *entity.Package) bool { return p.StoringOrderID == storingOrderID }, 0, 0), nil
}

func (r *PackageRepo) ListByTQStaff(_ context.Context, tqStaffID string, limit, offset int) ([]*entity.Package, error) {
	return r.filter(func(p *entity.Package) bool { return p.TQStaffID == tqStaffID }, limit, offset), nil
}

func (r *PackageRepo) List(_ context.Context, limit, offset int) ([]*entity.Package, error) {
	return r.filter(func(*entity.Package) bool { return true }, limit, offset), nil
}

func (r *PackageRepo) filter(keep func(*entity.Package) bool, limit, offset int) []*entity.Package {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Package
	for _, p := range r.s.packages {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	oldestFirst(out, func(p *entity.Package) time.Time { return p.CreatedAt }, func(p *entity.Package) string { return p.ID })
	return page(out, limit, offset)
}

// ItemRepo implementa repository.ItemRepository.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Upsert(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *it
	r.s.items[it.RFIDID] = &c
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, rfidID string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[rfidID]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}

func (r *ItemRepo) SetStatus(_ context.Context, packageID string, rfidIDs []string, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	sortedIDs := slices.Clone(rfidIDs)
	slices.Sort(sortedIDs)
	for _, id := range slices.Compact(sortedIDs) {
		it, ok := r.s.items[id]
		if !ok {
			it = &entity.Item{RFIDID: id, PackageID: packageID}
			r.s.items[id] = it
		}
		it.Status = status
		it.UpdatedAt = now
	}
	return nil
}
