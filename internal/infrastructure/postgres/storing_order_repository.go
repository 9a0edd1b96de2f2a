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

var _ repository.StoringOrderRepository = (*StoringOrderRepo)(nil)

// StoringOrderRepo implementación de StoringOrderRepository sobre PostgreSQL.
type StoringOrderRepo struct {
	q Querier
}

// NewStoringOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoringOrderRepository(q Querier) *StoringOrderRepo {
	return &StoringOrderRepo{q: q}
}

const storingOrderColumns = `id, receiver_id, invoice_number, bill_of_entry_id, airway_bill_number,
	package_quantity, status, discrepancy_detail, package_ids, received_date, version, created_at, updated_at`

func scanStoringOrder(row pgx.Row) (*entity.StoringOrder, error) {
	var o entity.StoringOrder
	err := row.Scan(&o.ID, &o.ReceiverID, &o.InvoiceNumber, &o.BillOfEntryID, &o.AirwayBillNumber,
		&o.PackageQuantity, &o.Status, &o.DiscrepancyDetail, &o.PackageIDs, &o.ReceivedDate,
		&o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una nueva orden de almacenamiento.
func (r *StoringOrderRepo) Create(ctx context.Context, o *entity.StoringOrder) error {
	query := `
		INSERT INTO storing_orders (id, receiver_id, invoice_number, bill_of_entry_id, airway_bill_number,
			package_quantity, status, discrepancy_detail, package_ids, received_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ReceiverID, o.InvoiceNumber, o.BillOfEntryID, o.AirwayBillNumber,
		o.PackageQuantity, o.Status, o.DiscrepancyDetail, o.PackageIDs, o.ReceivedDate,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert storing order: %w", err)
	}
	o.Version = 0
	return nil
}

// GetByID obtiene una orden por ID.
func (r *StoringOrderRepo) GetByID(ctx context.Context, id string) (*entity.StoringOrder, error) {
	o, err := scanStoringOrder(r.q.QueryRow(ctx, `SELECT `+storingOrderColumns+` FROM storing_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storing order: %w", err)
	}
	return o, nil
}

// Update escribe estado y detalle si la versión leída sigue vigente.
func (r *StoringOrderRepo) Update(ctx context.Context, o *entity.StoringOrder) error {
	query := `
		UPDATE storing_orders
		SET status = $3, discrepancy_detail = $4, received_date = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query, o.ID, o.Version, o.Status, o.DiscrepancyDetail, o.ReceivedDate, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update storing order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("storing order %s: %w", o.ID, domain.ErrConflict)
	}
	o.Version++
	return nil
}

// List lista todas las órdenes, de la más antigua a la más reciente.
func (r *StoringOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.StoringOrder, error) {
	return r.list(ctx, `SELECT `+storingOrderColumns+` FROM storing_orders
		ORDER BY created_at, id LIMIT $1 OFFSET $2`, limitOrAll(limit), offset)
}

// ListByReceiver lista las órdenes asignadas a un receptor.
func (r *StoringOrderRepo) ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*entity.StoringOrder, error) {
	return r.list(ctx, `SELECT `+storingOrderColumns+` FROM storing_orders
		WHERE receiver_id = $3 ORDER BY created_at, id LIMIT $1 OFFSET $2`, limitOrAll(limit), offset, receiverID)
}

func (r *StoringOrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StoringOrder, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list storing orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.StoringOrder
	for rows.Next() {
		o, err := scanStoringOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan storing order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
