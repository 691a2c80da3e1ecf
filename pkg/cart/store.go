package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/posbridge/pkg/repository"
)

// Store persists carts between requests, keyed by POS session.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

const cartTTL = 24 * time.Hour

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// RedisStore keeps carts in redis so a terminal restart does not lose the
// draft order.
type RedisStore struct {
	repo *repository.RedisRepository
}

func NewRedisStore(repo *repository.RedisRepository) *RedisStore {
	return &RedisStore{repo: repo}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	var cart Cart
	err := s.repo.GetJSON(ctx, cartKey(sessionID), &cart)
	if repository.IsMiss(err) {
		return New(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	if err := s.repo.SetJSON(ctx, cartKey(cart.SessionID), cart, cartTTL); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.repo.Del(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// MemoryStore is a map-backed Store for tests and single-terminal setups.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cart, ok := s.carts[sessionID]; ok {
		copied := *cart
		copied.Lines = append([]Line(nil), cart.Lines...)
		return &copied, nil
	}
	return New(sessionID), nil
}

func (s *MemoryStore) Save(_ context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cart
	copied.Lines = append([]Line(nil), cart.Lines...)
	s.carts[cart.SessionID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
