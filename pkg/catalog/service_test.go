package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/example/posbridge/pkg/backend"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLister struct {
	m         sync.Mutex
	products  json.RawMessage
	deleteErr error
	fetches   int
}

func (l *mockLister) ListProducts(context.Context) (json.RawMessage, error) {
	l.m.Lock()
	defer l.m.Unlock()
	l.fetches++
	return l.products, nil
}

func (l *mockLister) ListCategories(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (l *mockLister) ListTables(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (l *mockLister) ListPaymentMethods(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (l *mockLister) DeleteProduct(context.Context, string) error {
	l.m.Lock()
	defer l.m.Unlock()
	return l.deleteErr
}

type mockCache struct {
	m    sync.Mutex
	data map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]string)}
}

func (c *mockCache) Get(_ context.Context, key string) (string, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (c *mockCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *mockCache) Del(_ context.Context, keys ...string) error {
	c.m.Lock()
	defer c.m.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func TestProductsServedFromCache(t *testing.T) {
	lister := &mockLister{products: json.RawMessage(`[{"id":"p1"}]`)}
	cache := newMockCache()
	s := NewService(lister, cache, "tenant-1", zap.NewNop())

	data, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(data))

	// The async cache fill lands, then the next read skips the backend.
	assert.Eventually(t, func() bool {
		_, err := cache.Get(context.Background(), "catalog:tenant-1:products")
		return err == nil
	}, time.Second, time.Millisecond)

	_, err = s.Products(context.Background())
	require.NoError(t, err)

	lister.m.Lock()
	defer lister.m.Unlock()
	assert.Equal(t, 1, lister.fetches)
}

func TestDeleteConflictLeavesCachedListUnchanged(t *testing.T) {
	cached := `[{"id":"p1"},{"id":"p2"}]`
	lister := &mockLister{
		deleteErr: &backend.ConflictError{Message: "product has active orders"},
	}
	cache := newMockCache()
	require.NoError(t, cache.Set(context.Background(), "catalog:tenant-1:products", cached, time.Minute))

	s := NewService(lister, cache, "tenant-1", zap.NewNop())

	err := s.DeleteProduct(context.Background(), "p1")
	var conflict *backend.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "product has active orders", conflict.Message)

	// Local list must be exactly what it was.
	data, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, cached, string(data))
}

func TestDeleteSuccessInvalidatesCache(t *testing.T) {
	lister := &mockLister{products: json.RawMessage(`[{"id":"p2"}]`)}
	cache := newMockCache()
	require.NoError(t, cache.Set(context.Background(), "catalog:tenant-1:products", `[{"id":"p1"},{"id":"p2"}]`, time.Minute))

	s := NewService(lister, cache, "tenant-1", zap.NewNop())
	require.NoError(t, s.DeleteProduct(context.Background(), "p1"))

	_, err := cache.Get(context.Background(), "catalog:tenant-1:products")
	assert.ErrorIs(t, err, redis.Nil)
}
