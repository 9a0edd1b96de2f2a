package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/wms-rfid-api/internal/application/ports"
)

// Locker implementa ports.Locker dentro de un solo proceso. El ttl se respeta
// para que un lock olvidado no bloquee para siempre.
type Locker struct {
	mu    sync.Mutex
	held  map[string]lease
	seq   uint64
	clock func() time.Time
}

type lease struct {
	token   uint64
	expires time.Time
}

var _ ports.Locker = (*Locker)(nil)

// NewLocker crea un locker en memoria.
func NewLocker() *Locker {
	return &Locker{held: map[string]lease{}, clock: time.Now}
}

func (l *Locker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return nil, ports.ErrLockNotObtained
	}
	l.seq++
	token := l.seq
	l.held[key] = lease{token: token, expires: now.Add(ttl)}
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.held[key]; ok && cur.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
