package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL. La fila de cada
// etiqueta se sobrescribe; no usa versión.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de items.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Upsert sobrescribe la fila de la etiqueta. Las fechas nulas no borran las ya registradas.
func (r *ItemRepo) Upsert(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (rfid_id, package_id, status, bin_id, tq_date, binned_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (rfid_id) DO UPDATE SET
			package_id = EXCLUDED.package_id,
			status = EXCLUDED.status,
			bin_id = COALESCE(NULLIF(EXCLUDED.bin_id, ''), items.bin_id),
			tq_date = COALESCE(EXCLUDED.tq_date, items.tq_date),
			binned_date = COALESCE(EXCLUDED.binned_date, items.binned_date),
			updated_at = now()`
	_, err := r.q.Exec(ctx, query, it.RFIDID, it.PackageID, it.Status, it.BinID, it.TQDate, it.BinnedDate)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// GetByID obtiene el item de una etiqueta.
func (r *ItemRepo) GetByID(ctx context.Context, rfidID string) (*entity.Item, error) {
	query := `
		SELECT rfid_id, package_id, status, bin_id, tq_date, binned_date, updated_at
		FROM items WHERE rfid_id = $1`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, rfidID).Scan(
		&it.RFIDID, &it.PackageID, &it.Status, &it.BinID, &it.TQDate, &it.BinnedDate, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// SetStatus fija el estado de todas las etiquetas indicadas en una sentencia.
func (r *ItemRepo) SetStatus(ctx context.Context, packageID string, rfidIDs []string, status string) error {
	if len(rfidIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO items (rfid_id, package_id, status, bin_id, updated_at)
		SELECT t, $1, $3, '', now() FROM unnest($2::text[]) AS t
		ON CONFLICT (rfid_id) DO UPDATE SET status = EXCLUDED.status, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, packageID, rfidIDs, status); err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	return nil
}
