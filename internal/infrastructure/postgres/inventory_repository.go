package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el inventario de un producto en un bin; nil si no hay fila.
func (r *InventoryRepo) Get(ctx context.Context, binID, productID string) (*entity.Inventory, error) {
	query := `
		SELECT bin_id, product_id, quantity, updated_at
		FROM inventory WHERE bin_id = $1 AND product_id = $2`
	var inv entity.Inventory
	err := r.q.QueryRow(ctx, query, binID, productID).Scan(&inv.BinID, &inv.ProductID, &inv.Quantity, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// Add incrementa la cantidad de forma atómica (insert o suma).
func (r *InventoryRepo) Add(ctx context.Context, binID, productID string, qty int) error {
	query := `
		INSERT INTO inventory (bin_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (bin_id, product_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, binID, productID, qty); err != nil {
		return fmt.Errorf("add inventory: %w", err)
	}
	return nil
}

// List lista el inventario con paginación.
func (r *InventoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Inventory, error) {
	query := `
		SELECT bin_id, product_id, quantity, updated_at
		FROM inventory ORDER BY bin_id, product_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.BinID, &inv.ProductID, &inv.Quantity, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
