package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/posbridge/pkg/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheTTL = 5 * time.Minute

// Lister is the catalog slice of the backend client.
type Lister interface {
	ListProducts(ctx context.Context) (json.RawMessage, error)
	ListCategories(ctx context.Context) (json.RawMessage, error)
	ListTables(ctx context.Context) (json.RawMessage, error)
	ListPaymentMethods(ctx context.Context) (json.RawMessage, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Cache is the subset of the redis repository the service needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service serves catalog reads cache-aside so the POS screen does not hammer
// the backend on every render.
type Service struct {
	backend Lister
	cache   Cache
	tenant  string
	logger  *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede
}

func NewService(b Lister, cache Cache, tenant string, logger *zap.Logger) *Service {
	return &Service{
		backend: b,
		cache:   cache,
		tenant:  tenant,
		logger:  logger,
	}
}

func (s *Service) Products(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, "products", s.backend.ListProducts)
}

func (s *Service) Categories(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, "categories", s.backend.ListCategories)
}

func (s *Service) Tables(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, "tables", s.backend.ListTables)
}

func (s *Service) PaymentMethods(ctx context.Context) (json.RawMessage, error) {
	return s.cached(ctx, "payment-methods", s.backend.ListPaymentMethods)
}

// DeleteProduct passes the delete through. A backend conflict (product still
// referenced by open orders) is returned untouched and the cached list is
// left as-is, since nothing was removed.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Del(ctx, s.key("products")); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
	return nil
}

func (s *Service) cached(ctx context.Context, kind string, fetch func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	key := s.key(kind)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		val, err := s.cache.Get(ctx, key)
		if err == nil {
			return json.RawMessage(val), nil
		}
		if !repository.IsMiss(err) {
			s.logger.Warn("catalog cache get failed", zap.String("kind", kind), zap.Error(err))
		}

		data, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
		}

		// set cache
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, key, string(data), cacheTTL); err != nil {
				s.logger.Warn("catalog cache set failed", zap.String("kind", kind), zap.Error(err))
			}
		}()

		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

func (s *Service) key(kind string) string {
	return fmt.Sprintf("catalog:%s:%s", s.tenant, kind)
}
