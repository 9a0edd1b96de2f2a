// Package retry reintenta unidades de trabajo que pierden una actualización condicional.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/lifecycle"
)

// DefaultAttempts es el número de intentos cuando no se configura STORE_CONFLICT_RETRIES.
const DefaultAttempts = 5

// OnConflict ejecuta fn y la repite, con espera exponencial corta, mientras devuelva
// domain.ErrConflict. Cualquier otro error corta de inmediato. Agotados los intentos
// se devuelve el último conflicto.
func OnConflict(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 5 * time.Millisecond
	eb.MaxInterval = 200 * time.Millisecond
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)
	return backoff.Retry(func() error {
		err := fn()
		if err == nil || errors.Is(err, domain.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

// Mutate carga una entidad, le aplica una transición pura y la guarda con
// actualización condicional, repitiendo todo el ciclo ante conflicto.
// Si apply devuelve lifecycle.ErrNoChange no se escribe y changed es false.
func Mutate[T any](
	ctx context.Context,
	attempts int,
	load func(context.Context) (T, error),
	apply func(T) (T, error),
	save func(context.Context, T) error,
) (result T, changed bool, err error) {
	err = OnConflict(ctx, attempts, func() error {
		cur, err := load(ctx)
		if err != nil {
			return err
		}
		next, err := apply(cur)
		if errors.Is(err, lifecycle.ErrNoChange) {
			result, changed = next, false
			return nil
		}
		if err != nil {
			return err
		}
		if err := save(ctx, next); err != nil {
			return err
		}
		result, changed = next, true
		return nil
	})
	return result, changed, err
}
