package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var (
	_ repository.PickOrderRepository = (*PickOrderRepo)(nil)
	_ repository.PickSlipRepository  = (*PickSlipRepo)(nil)
)

// PickOrderRepo implementación de PickOrderRepository sobre PostgreSQL.
type PickOrderRepo struct {
	q Querier
}

// NewPickOrderRepository construye el adaptador de órdenes de picking.
func NewPickOrderRepository(q Querier) *PickOrderRepo {
	return &PickOrderRepo{q: q}
}

const pickOrderColumns = `id, pick_slip_id, picker_id, product_id, bin_id, quantity, status,
	picked_date, version, created_at, updated_at`

func scanPickOrder(row pgx.Row) (*entity.PickOrder, error) {
	var o entity.PickOrder
	err := row.Scan(&o.ID, &o.PickSlipID, &o.PickerID, &o.ProductID, &o.BinID, &o.Quantity, &o.Status,
		&o.PickedDate, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una orden de picking.
func (r *PickOrderRepo) Create(ctx context.Context, o *entity.PickOrder) error {
	query := `
		INSERT INTO pick_orders (` + pickOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`
	_, err := r.q.Exec(ctx, query, o.ID, o.PickSlipID, o.PickerID, o.ProductID, o.BinID, o.Quantity,
		o.Status, o.PickedDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pick order: %w", err)
	}
	o.Version = 0
	return nil
}

// GetByID obtiene una orden de picking.
func (r *PickOrderRepo) GetByID(ctx context.Context, id string) (*entity.PickOrder, error) {
	o, err := scanPickOrder(r.q.QueryRow(ctx, `SELECT `+pickOrderColumns+` FROM pick_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick order: %w", err)
	}
	return o, nil
}

// Update escribe estado y fecha de picking si la versión sigue vigente.
func (r *PickOrderRepo) Update(ctx context.Context, o *entity.PickOrder) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE pick_orders SET status = $3, picked_date = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $2`, o.ID, o.Version, o.Status, o.PickedDate, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pick order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("pick order %s: %w", o.ID, domain.ErrConflict)
	}
	o.Version++
	return nil
}

// ListBySlip devuelve las órdenes de un pick slip (consulta por índice pick_slip_id).
func (r *PickOrderRepo) ListBySlip(ctx context.Context, pickSlipID string) ([]*entity.PickOrder, error) {
	rows, err := r.q.Query(ctx, `SELECT `+pickOrderColumns+` FROM pick_orders
		WHERE pick_slip_id = $1 ORDER BY created_at, id`, pickSlipID)
	if err != nil {
		return nil, fmt.Errorf("list pick orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PickOrder
	for rows.Next() {
		o, err := scanPickOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pick order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// NextForPicker devuelve la orden pendiente más antigua del picker.
func (r *PickOrderRepo) NextForPicker(ctx context.Context, pickerID string) (*entity.PickOrder, error) {
	o, err := scanPickOrder(r.q.QueryRow(ctx, `SELECT `+pickOrderColumns+` FROM pick_orders
		WHERE picker_id = $1 AND status = $2 ORDER BY created_at, id LIMIT 1`,
		pickerID, entity.PickOrderReadyForPicking))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("next pick order: %w", err)
	}
	return o, nil
}

// PickSlipRepo implementación de PickSlipRepository sobre PostgreSQL.
type PickSlipRepo struct {
	q Querier
}

// NewPickSlipRepository construye el adaptador de pick slips.
func NewPickSlipRepository(q Querier) *PickSlipRepo {
	return &PickSlipRepo{q: q}
}

const pickSlipColumns = `id, packing_zone, status, packer_id, dispatcher_id, ready_for_packing_date,
	packing_start_date, packed_date, dispatched_date, version, created_at, updated_at`

func scanPickSlip(row pgx.Row) (*entity.PickSlip, error) {
	var s entity.PickSlip
	err := row.Scan(&s.ID, &s.PackingZone, &s.Status, &s.PackerID, &s.DispatcherID, &s.ReadyForPackingDate,
		&s.PackingStartDate, &s.PackedDate, &s.DispatchedDate, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un pick slip.
func (r *PickSlipRepo) Create(ctx context.Context, s *entity.PickSlip) error {
	query := `
		INSERT INTO pick_slips (` + pickSlipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)`
	_, err := r.q.Exec(ctx, query, s.ID, s.PackingZone, s.Status, s.PackerID, s.DispatcherID,
		s.ReadyForPackingDate, s.PackingStartDate, s.PackedDate, s.DispatchedDate, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pick slip: %w", err)
	}
	s.Version = 0
	return nil
}

// GetByID obtiene un pick slip.
func (r *PickSlipRepo) GetByID(ctx context.Context, id string) (*entity.PickSlip, error) {
	s, err := scanPickSlip(r.q.QueryRow(ctx, `SELECT `+pickSlipColumns+` FROM pick_slips WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick slip: %w", err)
	}
	return s, nil
}

// Update escribe estado, responsables y fechas si la versión sigue vigente.
func (r *PickSlipRepo) Update(ctx context.Context, s *entity.PickSlip) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE pick_slips SET status = $3, packer_id = $4, dispatcher_id = $5,
			ready_for_packing_date = $6, packing_start_date = $7, packed_date = $8,
			dispatched_date = $9, updated_at = $10, version = version + 1
		WHERE id = $1 AND version = $2`,
		s.ID, s.Version, s.Status, s.PackerID, s.DispatcherID,
		s.ReadyForPackingDate, s.PackingStartDate, s.PackedDate, s.DispatchedDate, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pick slip: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("pick slip %s: %w", s.ID, domain.ErrConflict)
	}
	s.Version++
	return nil
}

// ListReadyForPacking devuelve los slips listos para empacar de una zona, más antiguos primero.
func (r *PickSlipRepo) ListReadyForPacking(ctx context.Context, zone string, limit int) ([]*entity.PickSlip, error) {
	return r.list(ctx, `SELECT `+pickSlipColumns+` FROM pick_slips
		WHERE packing_zone = $2 AND status = $3 ORDER BY created_at, id LIMIT $1`,
		limitOrAll(limit), zone, entity.PickSlipReadyForPacking)
}

// List lista todos los pick slips.
func (r *PickSlipRepo) List(ctx context.Context, limit, offset int) ([]*entity.PickSlip, error) {
	return r.list(ctx, `SELECT `+pickSlipColumns+` FROM pick_slips
		ORDER BY created_at, id LIMIT $1 OFFSET $2`, limitOrAll(limit), offset)
}

func (r *PickSlipRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PickSlip, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pick slips: %w", err)
	}
	defer rows.Close()
	var list []*entity.PickSlip
	for rows.Next() {
		s, err := scanPickSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pick slip: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
