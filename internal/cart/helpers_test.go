package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/cartkeeper/internal/catalog"
	"github.com/angelmondragon/cartkeeper/pkg/config"
	"github.com/angelmondragon/cartkeeper/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, config.DBDriverSQLite, "up"))
	return conn
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestRepository(t *testing.T) (*Repository, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := NewRepository(setupCartsTestDB(t), time.Second)
	repo.now = clock.Now
	return repo, clock
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo, _ := newTestRepository(t)
	svc, err := NewService(repo, catalog.NewDefault(), nil)
	require.NoError(t, err)
	return svc, repo
}

func addInput(productID, name string, price float64, quantity any) AddInput {
	return AddInput{ProductID: productID, Name: name, Price: price, Quantity: quantity}
}

func rawItem(productID, name string, price float64, quantity float64) map[string]any {
	return map[string]any{"productId": productID, "name": name, "price": price, "quantity": quantity}
}
