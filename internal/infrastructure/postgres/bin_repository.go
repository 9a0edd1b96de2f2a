package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var _ repository.BinRepository = (*BinRepo)(nil)

// BinRepo implementación de BinRepository sobre PostgreSQL.
type BinRepo struct {
	q Querier
}

// NewBinRepository construye el adaptador de bins.
func NewBinRepository(q Querier) *BinRepo {
	return &BinRepo{q: q}
}

const binColumns = `id, zone, availability_vol, version, created_at, updated_at`

func scanBin(row pgx.Row) (*entity.Bin, error) {
	var b entity.Bin
	if err := row.Scan(&b.ID, &b.Zone, &b.AvailabilityVol, &b.Version, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Upsert crea un bin o actualiza su zona y disponibilidad (carga inicial).
func (r *BinRepo) Upsert(ctx context.Context, b *entity.Bin) error {
	query := `
		INSERT INTO bins (id, zone, availability_vol, version, created_at, updated_at)
		VALUES ($1, $2, $3, 0, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET zone = EXCLUDED.zone, availability_vol = EXCLUDED.availability_vol,
		    version = bins.version + 1, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Zone, b.AvailabilityVol); err != nil {
		return fmt.Errorf("upsert bin: %w", err)
	}
	return nil
}

// GetByID obtiene un bin por ID.
func (r *BinRepo) GetByID(ctx context.Context, id string) (*entity.Bin, error) {
	b, err := scanBin(r.q.QueryRow(ctx, `SELECT `+binColumns+` FROM bins WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return b, nil
}

// List devuelve todos los bins.
func (r *BinRepo) List(ctx context.Context) ([]*entity.Bin, error) {
	rows, err := r.q.Query(ctx, `SELECT `+binColumns+` FROM bins ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bin
	for rows.Next() {
		b, err := scanBin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Reserve descuenta vol y registra la reserva del paquete en una sola sentencia.
// Si la reserva (paquete, bin) ya existe no se descuenta de nuevo.
func (r *BinRepo) Reserve(ctx context.Context, packageID, binID string, vol decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `
		WITH upd AS (
			UPDATE bins SET availability_vol = availability_vol - $3, version = version + 1, updated_at = now()
			WHERE id = $2 AND availability_vol >= $3
			  AND NOT EXISTS (SELECT 1 FROM bin_reservations WHERE package_id = $1 AND bin_id = $2)
			RETURNING id
		)
		INSERT INTO bin_reservations (package_id, bin_id, volume, created_at)
		SELECT $1, id, $3, now() FROM upd`, packageID, binID, vol)
	if err != nil {
		return fmt.Errorf("reserve bin: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	var reserved bool
	if err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM bin_reservations WHERE package_id = $1 AND bin_id = $2)`,
		packageID, binID).Scan(&reserved); err != nil {
		return fmt.Errorf("check reservation: %w", err)
	}
	if reserved {
		return nil
	}
	exists, err := r.GetByID(ctx, binID)
	if err != nil {
		return err
	}
	if exists == nil {
		return fmt.Errorf("bin %s: %w", binID, domain.ErrNotFound)
	}
	return fmt.Errorf("bin %s: %w", binID, domain.ErrInsufficientSpace)
}

// ReleasePackage borra las reservas del paquete y devuelve su volumen a cada bin.
func (r *BinRepo) ReleasePackage(ctx context.Context, packageID string) error {
	_, err := r.q.Exec(ctx, `
		WITH del AS (
			DELETE FROM bin_reservations WHERE package_id = $1 RETURNING bin_id, volume
		)
		UPDATE bins SET availability_vol = bins.availability_vol + del.volume,
		       version = bins.version + 1, updated_at = now()
		FROM del WHERE bins.id = del.bin_id`, packageID)
	if err != nil {
		return fmt.Errorf("release package reservations: %w", err)
	}
	return nil
}
