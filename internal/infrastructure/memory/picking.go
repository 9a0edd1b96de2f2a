package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// PickOrderRepo implementa repository.PickOrderRepository.
type PickOrderRepo struct{ s *Store }

func (r *PickOrderRepo) Create(_ context.Context, o *entity.PickOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pickOrders[o.ID]; ok {
		return fmt.Errorf("pick order %s: %w", o.ID, domain.ErrDuplicate)
	}
	c := *o
	r.s.pickOrders[o.ID] = &c
	return nil
}

func (r *PickOrderRepo) GetByID(_ context.Context, id string) (*entity.PickOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.pickOrders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (r *PickOrderRepo) Update(_ context.Context, o *entity.PickOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pickOrders[o.ID]
	if !ok {
		return fmt.Errorf("pick order %s: %w", o.ID, domain.ErrNotFound)
	}
	if cur.Version != o.Version {
		return fmt.Errorf("pick order %s: %w", o.ID, domain.ErrConflict)
	}
	o.Version++
	c := *o
	r.s.pickOrders[o.ID] = &c
	return nil
}

func (r *PickOrderRepo) ListBySlip(_ context.Context, pickSlipID string) ([]*entity.PickOrder, error) {
	return r.filter(func(o *entity.PickOrder) bool { return o.PickSlipID == pickSlipID }), nil
}

func (r *PickOrderRepo) NextForPicker(_ context.Context, pickerID string) (*entity.PickOrder, error) {
	out := r.filter(func(o *entity.PickOrder) bool {
		return o.PickerID == pickerID && o.Status == entity.PickOrderReadyForPicking
	})
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *PickOrderRepo) filter(keep func(*entity.PickOrder) bool) []*entity.PickOrder {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PickOrder
	for _, o := range r.s.pickOrders {
		if keep(o) {
			c := *o
			out = append(out, &c)
		}
	}
	oldestFirst(out, func(o *entity.PickOrder) time.Time { return o.CreatedAt }, func(o *entity.PickOrder) string { return o.ID })
	return out
}

// PickSlipRepo implementa repository.PickSlipRepository.
type PickSlipRepo struct{ s *Store }

func (r *PickSlipRepo) Create(_ context.Context, sl *entity.PickSlip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pickSlips[sl.ID]; ok {
		return fmt.Errorf("pick slip %s: %w", sl.ID, domain.ErrDuplicate)
	}
	c := *sl
	r.s.pickSlips[sl.ID] = &c
	return nil
}

func (r *PickSlipRepo) GetByID(_ context.Context, id string) (*entity.PickSlip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.pickSlips[id]
	if !ok {
		return nil, nil
	}
	c := *sl
	return &c, nil
}

func (r *PickSlipRepo) Update(_ context.Context, sl *entity.PickSlip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pickSlips[sl.ID]
	if !ok {
		return fmt.Errorf("pick slip %s: %w", sl.ID, domain.ErrNotFound)
	}
	if cur.Version != sl.Version {
		return fmt.Errorf("pick slip %s: %w", sl.ID, domain.ErrConflict)
	}
	sl.Version++
	c := *sl
	r.s.pickSlips[sl.ID] = &c
	return nil
}

func (r *PickSlipRepo) ListReadyForPacking(_ context.Context, zone string, limit int) ([]*entity.PickSlip, error) {
	out := r.filter(func(sl *entity.PickSlip) bool {
		return sl.PackingZone == zone && sl.Status == entity.PickSlipReadyForPacking
	})
	return page(out, limit, 0), nil
}

func (r *PickSlipRepo) List(_ context.Context, limit, offset int) ([]*entity.PickSlip, error) {
	return page(r.filter(func(*entity.PickSlip) bool { return true }), limit, offset), nil
}

func (r *PickSlipRepo) filter(keep func(*entity.PickSlip) bool) []*entity.PickSlip {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PickSlip
	for _, sl := range r.s.pickSlips {
		if keep(sl) {
			c := *sl
			out = append(out, &c)
		}
	}
	oldestFirst(out, func(sl *entity.PickSlip) time.Time { return sl.CreatedAt }, func(sl *entity.PickSlip) string { return sl.ID })
	return out
}
