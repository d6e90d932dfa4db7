package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := l.Obtain(ctx, "branch:North")
			require.NoError(t, err)
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			require.NoError(t, lease.Release(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Zero(t, l.held())
}

func TestLocalLocker_KeysAreIndependent(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	a, err := l.Obtain(ctx, "a")
	require.NoError(t, err)
	b, err := l.Obtain(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, a.Release(ctx))
	require.NoError(t, a.Release(ctx))
	require.NoError(t, b.Release(ctx))
	assert.Zero(t, l.held())
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()
	held, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(ctx, "k")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	require.NoError(t, held.Release(context.Background()))
	assert.Zero(t, l.held())
}

func TestNew_FallsBackToLocal(t *testing.T) {
	locker := New(config.LockConfig{Backend: "redis"}, nil, zap.NewNop())
	_, ok := locker.(*LocalLocker)
	assert.True(t, ok)

	locker = New(config.LockConfig{Backend: "local"}, nil, zap.NewNop())
	_, ok = locker.(*LocalLocker)
	assert.True(t, ok)
}

// Runs against a real redis when REDIS_ADDR is set
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLocker(rdb, config.LockConfig{TTL: time.Second, RetryCount: 0}, zap.NewNop())
	ctx := context.Background()

	lease, err := l.Obtain(ctx, "test:shift:North")
	require.NoError(t, err)
	_, err = l.Obtain(ctx, "test:shift:North")
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	require.NoError(t, lease.Release(ctx))
	again, err := l.Obtain(ctx, "test:shift:North")
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}
