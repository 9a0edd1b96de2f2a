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

var _ repository.PackageRepository = (*PackageRepo)(nil)

// PackageRepo implementación de PackageRepository sobre PostgreSQL.
// bin_allocation y bin_current se guardan como jsonb; las etiquetas como text[].
type PackageRepo struct {
	q Querier
}

// NewPackageRepository construye el adaptador de paquetes. Pasar pool o tx (Querier).
func NewPackageRepository(q Querier) *PackageRepo {
	return &PackageRepo{q: q}
}

const packageColumns = `id, storing_order_id, product_id, quantity, rfid_ids, status,
	tq_scanned_quantity, tq_scanned_tags, bin_allocation, bin_current, binned_tags,
	binner_id, tq_staff_id, tq_fail_description, tq_start_date, tq_date,
	ready_for_bin_allocation_date, bin_allocation_date, binned_date, version, created_at, updated_at`

func scanPackage(row pgx.Row) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(&p.ID, &p.StoringOrderID, &p.ProductID, &p.Quantity, &p.RFIDIDs, &p.Status,
		&p.TQScannedQuantity, &p.TQScannedTags, &p.BinAllocation, &p.BinCurrent, &p.BinnedTags,
		&p.BinnerID, &p.TQStaffID, &p.TQFailDescription, &p.TQStartDate, &p.TQDate,
		&p.ReadyForBinAllocationDate, &p.BinAllocationDate, &p.BinnedDate, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo paquete.
func (r *PackageRepo) Create(ctx context.Context, p *entity.Package) error {
	query := `
		INSERT INTO packages (` + packageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, 0, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.StoringOrderID, p.ProductID, p.Quantity, nonNil(p.RFIDIDs), p.Status,
		p.TQScannedQuantity, nonNil(p.TQScannedTags), p.BinAllocation, p.BinCurrent, nonNil(p.BinnedTags),
		p.BinnerID, p.TQStaffID, p.TQFailDescription, p.TQStartDate, p.TQDate,
		p.ReadyForBinAllocationDate, p.BinAllocationDate, p.BinnedDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert package: %w", err)
	}
	p.Version = 0
	return nil
}

// GetByID obtiene un paquete por ID.
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*entity.Package, error) {
	p, err := scanPackage(r.q.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

// Update escribe contadores y estado en una sola sentencia condicionada a la versión leída.
func (r *PackageRepo) Update(ctx context.Context, p *entity.Package) error {
	query := `
		UPDATE packages SET
			status = $3, tq_scanned_quantity = $4, tq_scanned_tags = $5,
			bin_allocation = $6, bin_current = $7, binned_tags = $8,
			binner_id = $9, tq_staff_id = $10, tq_fail_description = $11,
			tq_start_date = $12, tq_date = $13, ready_for_bin_allocation_date = $14,
			bin_allocation_date = $15, binned_date = $16, updated_at = $17,
			version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Version,
		p.Status, p.TQScannedQuantity, nonNil(p.TQScannedTags),
		p.BinAllocation, p.BinCurrent, nonNil(p.BinnedTags),
		p.BinnerID, p.TQStaffID, p.TQFailDescription,
		p.TQStartDate, p.TQDate, p.ReadyForBinAllocationDate,
		p.BinAllocationDate, p.BinnedDate, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("package %s: %w", p.ID, domain.ErrConflict)
	}
	p.Version++
	return nil
}

// ListByStoringOrder devuelve los paquetes de una orden.
func (r *PackageRepo) ListByStoringOrder(ctx context.Context, storingOrderID string) ([]*entity.Package, error) {
	return r.list(ctx, `SELECT `+packageColumns+` FROM packages
		WHERE storing_order_id = $1 ORDER BY created_at, id`, storingOrderID)
}

// ListByTQStaff devuelve los paquetes inspeccionados por un empleado de TQ.
func (r *PackageRepo) ListByTQStaff(ctx context.Context, tqStaffID string, limit, offset int) ([]*entity.Package, error) {
	return r.list(ctx, `SELECT `+packageColumns+` FROM packages
		WHERE tq_staff_id = $3 ORDER BY created_at, id LIMIT $1 OFFSET $2`, limitOrAll(limit), offset, tqStaffID)
}

// List lista todos los paquetes.
func (r *PackageRepo) List(ctx context.Context, limit, offset int) ([]*entity.Package, error) {
	return r.list(ctx, `SELECT `+packageColumns+` FROM packages
		ORDER BY created_at, id LIMIT $1 OFFSET $2`, limitOrAll(limit), offset)
}

func (r *PackageRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Package, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// nonNil evita escribir NULL en columnas text[] NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
