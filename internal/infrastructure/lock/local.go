package lock

import (
	"context"
	"sync"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
)

// LocalLocker is a process-local keyed mutex. Entries are reference counted
// so the map only holds keys that are held or awaited.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates an empty local locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

// Obtain blocks until key is free or ctx is done
func (l *LocalLocker) Obtain(ctx context.Context, key string) (shared.Lease, error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return &localLease{owner: l, key: key, slot: s}, nil
	case <-ctx.Done():
		l.unref(key, s)
		return nil, shared.Newf(shared.ErrConcurrencyConflict, "lock %s not obtained: %v", key, ctx.Err())
	}
}

func (l *LocalLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// held returns the number of tracked keys
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

type localLease struct {
	once  sync.Once
	owner *LocalLocker
	key   string
	slot  *slot
}

// Release frees the key; releasing twice is a no-op
func (ll *localLease) Release(_ context.Context) error {
	ll.once.Do(func() {
		<-ll.slot.ch
		ll.owner.unref(ll.key, ll.slot)
	})
	return nil
}

var _ shared.Locker = (*LocalLocker)(nil)
