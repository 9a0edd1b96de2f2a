package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
	"github.com/jhoicas/wms-rfid-api/internal/domain/repository"
)

var _ repository.APIKeyRepository = (*APIKeyRepo)(nil)

// APIKeyRepo implementación del puerto APIKeyRepository sobre PostgreSQL.
type APIKeyRepo struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository construye el adaptador de persistencia para API keys.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepo {
	return &APIKeyRepo{pool: pool}
}

// Create persiste una nueva API key (solo el hash del secreto).
func (r *APIKeyRepo) Create(ctx context.Context, k *entity.APIKey) error {
	query := `
		INSERT INTO api_keys (id, employee_id, role, name, secret_hash, active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		k.ID, k.EmployeeID, k.Role, k.Name, k.SecretHash, k.Active, k.ExpiresAt, k.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

// GetByID obtiene una API key por ID.
func (r *APIKeyRepo) GetByID(ctx context.Context, id string) (*entity.APIKey, error) {
	query := `
		SELECT id, employee_id, role, name, secret_hash, active, expires_at, created_at
		FROM api_keys WHERE id = $1`
	var k entity.APIKey
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&k.ID, &k.EmployeeID, &k.Role, &k.Name, &k.SecretHash, &k.Active, &k.ExpiresAt, &k.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return &k, nil
}
