package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sequence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, codes ...string) *Service {
	t.Helper()
	svc := NewService(persistence.NewGormCounterRepository(sqlitetest.Open(t)), lock.NewLocalLocker())
	svc.RegisterSource("WH-", "", sequence.CodeSourceFunc(func(context.Context) ([]string, error) {
		return codes, nil
	}))
	return svc
}

func TestService_Next(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	t.Run("rejects an empty prefix", func(t *testing.T) {
		_, err := svc.Next(ctx, " ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("concurrent draws are distinct", func(t *testing.T) {
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = map[int64]bool{}
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := svc.Next(ctx, sequence.PrefixDispatch)
				assert.NoError(t, err)
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 20)
	})
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "WH-001", "WH-007", "FG-900")

	got, err := svc.Reconcile(ctx, "WH-")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Sequence)

	n, err := svc.Next(ctx, "WH-")
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	_, err = svc.Reconcile(ctx, "unknown")
	assert.ErrorIs(t, err, shared.ErrDependencyMissing)
}

func TestService_AllocateMasterID(t *testing.T) {
	ctx := context.Background()

	t.Run("fills the first gap at or above the counter", func(t *testing.T) {
		svc := newService(t, "WH-001", "WH-002", "WH-004")
		code, err := svc.AllocateMasterID(ctx, "WH-", 3)
		require.NoError(t, err)
		assert.Equal(t, "WH-003", code)

		cur, err := svc.Current(ctx, "WH-")
		require.NoError(t, err)
		assert.Equal(t, int64(3), cur.Sequence)
	})

	t.Run("empty registry starts at one", func(t *testing.T) {
		svc := newService(t)
		resp, err := svc.Allocate(ctx, "WH-", 3)
		require.NoError(t, err)
		assert.Equal(t, "WH-001", resp.Code)
		assert.Equal(t, int64(1), resp.Sequence)
	})
}

func TestService_AllocateMasterID_DoesNotRepeatUnsavedCode(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "WH-001")

	first, err := svc.AllocateMasterID(ctx, "WH-", 3)
	require.NoError(t, err)
	second, err := svc.AllocateMasterID(ctx, "WH-", 3)
	require.NoError(t, err)
	assert.Equal(t, "WH-002", first)
	assert.Equal(t, "WH-003", second)
}
