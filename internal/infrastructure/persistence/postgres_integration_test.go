//go:build integration

package persistence_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/registry"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared/valueobject"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/lock"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/migration"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/persistence"
	"github.com/Deepasarathi10/Mobileapi-sub000/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openPostgres starts a disposable Postgres container and applies the
// embedded migrations to it.
func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mobileapi_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migration.NewFromURL(dsn, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := persistence.OpenDialector(gormpostgres.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func TestPostgres_CounterNextIsStrictlyMonotonic(t *testing.T) {
	db := openPostgres(t)
	repo := persistence.NewGormCounterRepository(db)
	ctx := context.Background()

	const n = 50
	got := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := repo.Next(ctx, "DIN")
			assert.NoError(t, err)
			got[i] = v
		}(i)
	}
	wg.Wait()

	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		assert.Equal(t, int64(i+1), v)
	}

	cur, err := repo.Current(ctx, "DIN")
	require.NoError(t, err)
	assert.Equal(t, int64(n), cur)
}

func TestPostgres_ConcurrentWarehouseDebits(t *testing.T) {
	db := openPostgres(t)
	ctx := context.Background()

	items := persistence.NewGormWarehouseItemRepository(db)
	branchwise := persistence.NewGormBranchwiseItemRepository(db)

	item, err := registry.NewWarehouseItem("FG001", "Plum Cake 500g", "Plum Cake", valueobject.MeasurementCount)
	require.NoError(t, err)
	_, err = item.Adjust("Main", decimal.NewFromInt(40))
	require.NoError(t, err)
	require.NoError(t, items.Save(ctx, item))

	stock := registryapp.NewStockService(items, branchwise, lock.NewLocalLocker(), registryapp.StockOptions{
		MaxRetries: 100,
		Backoff:    time.Millisecond,
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stock.AdjustWarehouse(ctx, registryapp.ItemRef{Code: "FG001"}, "Main", decimal.NewFromInt(-1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := items.FindByCode(ctx, "FG001")
	require.NoError(t, err)
	level, ok := stored.StockIn("Main")
	require.True(t, ok)
	assert.True(t, level.IsZero(), "every debit applied exactly once, got %s", level)
}
