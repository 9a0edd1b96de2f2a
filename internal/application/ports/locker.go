package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained indica que otro proceso mantiene el lock.
var ErrLockNotObtained = errors.New("lock no obtenido")

// Locker define el puerto de salida para locks distribuidos (Redis en producción,
// mutex en memoria para pruebas). La asignación de bins lo usa para que dos
// planificaciones no trabajen sobre la misma foto de disponibilidad.
type Locker interface {
	// Acquire obtiene el lock de key por ttl. La función devuelta lo libera.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
