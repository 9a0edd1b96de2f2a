package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
)

// Locker implementa ports.Locker con redislock. Acquire espera un poco a que
// el lock se libere antes de rendirse.
type Locker struct {
	client *redislock.Client
	retry  redislock.RetryStrategy
}

var _ ports.Locker = (*Locker)(nil)

// NewLocker crea el locker sobre un cliente ya conectado.
func NewLocker(rdb *goredis.Client) *Locker {
	return &Locker{
		client: redislock.New(rdb),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ports.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}, nil
}
