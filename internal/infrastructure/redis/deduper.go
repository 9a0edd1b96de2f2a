package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
)

// Deduper implementa ports.Deduper con claves que expiran tras ttl.
type Deduper struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

var _ ports.Deduper = (*Deduper)(nil)

// NewDeduper crea el filtro; las claves expiran tras ttl.
func NewDeduper(rdb *goredis.Client, ttl time.Duration) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Deduper{rdb: rdb, ttl: ttl, prefix: "dedupe:"}
}

func (d *Deduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *Deduper) Mark(ctx context.Context, key string) error {
	return d.rdb.Set(ctx, d.prefix+key, 1, d.ttl).Err()
}
