package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/domain/product"
	vo "github.com/orris-inc/subtrack/internal/domain/shared/value_objects"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestLedgerLock_Exclusive(t *testing.T) {
	_, client := setupRedis(t)
	lock := NewLedgerLock(client, 5*time.Second, 100*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, 42)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, 42)
	assert.Error(t, err)

	other, err := lock.Acquire(ctx, 43)
	require.NoError(t, err)
	other()

	release()
	again, err := lock.Acquire(ctx, 42)
	require.NoError(t, err)
	again()
}

func TestLedgerLock_ReleaseDoesNotStealReacquiredLock(t *testing.T) {
	mr, client := setupRedis(t)
	lock := NewLedgerLock(client, time.Second, 50*time.Millisecond)
	ctx := context.Background()

	stale, err := lock.Acquire(ctx, 1)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	current, err := lock.Acquire(ctx, 1)
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists(ledgerLockKey(1)))
	current()
	assert.False(t, mr.Exists(ledgerLockKey(1)))
}

func TestLedgerLock_WaitsForHolder(t *testing.T) {
	_, client := setupRedis(t)
	lock := NewLedgerLock(client, 5*time.Second, 2*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, 9)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var waitErr error
	go func() {
		defer wg.Done()
		r, err := lock.Acquire(ctx, 9)
		waitErr = err
		if err == nil {
			r()
		}
	}()

	time.Sleep(100 * time.Millisecond)
	release()
	wg.Wait()
	assert.NoError(t, waitErr)
}

func TestReminderDeduplicator(t *testing.T) {
	mr, client := setupRedis(t)
	d := NewReminderDeduplicator(client)
	ctx := context.Background()
	threshold := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ok, err := d.TryAcquire(ctx, 5, threshold, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.TryAcquire(ctx, 5, threshold, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	// a new threshold is a new reminder
	ok, err = d.TryAcquire(ctx, 5, threshold.AddDate(1, 0, 0), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.Release(ctx, 5, threshold))
	ok, err = d.TryAcquire(ctx, 5, threshold, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Hour)
	ok, err = d.TryAcquire(ctx, 5, threshold, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

type mockProductRepository struct {
	mock.Mock
	product.Repository
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*product.Product)
	return p, args.Error(1)
}

func (m *mockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]*product.Product)
	return list, args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func testProduct(t *testing.T, id uint, name string) *product.Product {
	p, err := product.ReconstructProduct(id, "prd_test", name, "", vo.DefaultTerms(10), nil, 15, 1, time.Now(), time.Now())
	require.NoError(t, err)
	return p
}

func TestCachedProductRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	inner := new(mockProductRepository)
	inner.On("GetByID", ctx, uint(1)).Return(testProduct(t, 1, "Hosting"), nil).Once()
	inner.On("GetByID", ctx, uint(2)).Return(nil, nil)

	repo := NewCachedProductRepository(inner, 16, time.Minute)

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hosting", second.Name())
	assert.NotSame(t, first, second)

	missing, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, missing)

	inner.AssertExpectations(t)
}

func TestCachedProductRepository_UpdateEvicts(t *testing.T) {
	ctx := context.Background()
	p := testProduct(t, 1, "Hosting")
	inner := new(mockProductRepository)
	inner.On("GetByID", ctx, uint(1)).Return(p, nil).Twice()
	inner.On("Update", ctx, p).Return(nil)

	repo := NewCachedProductRepository(inner, 16, time.Minute)
	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, p))
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}

func TestCachedProductRepository_GetByIDsLoadsOnlyMisses(t *testing.T) {
	ctx := context.Background()
	inner := new(mockProductRepository)
	inner.On("GetByID", ctx, uint(1)).Return(testProduct(t, 1, "A"), nil).Once()
	inner.On("GetByIDs", ctx, []uint{2}).Return([]*product.Product{testProduct(t, 2, "B")}, nil).Once()

	repo := NewCachedProductRepository(inner, 16, time.Minute)
	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	list, err := repo.GetByIDs(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	inner.AssertExpectations(t)
}
