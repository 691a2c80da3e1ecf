package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/posbridge/pkg/config"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return r.client.SAdd(ctx, key, members...).Err()
}

func (r *RedisRepository) SIsMember(ctx context.Context, key string, member interface{}) (bool, error) {
	return r.client.SIsMember(ctx, key, member).Result()
}

func (r *RedisRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	return n > 0, err
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// IsMiss reports whether err is a plain cache miss.
func IsMiss(err error) bool {
	return err == redis.Nil
}

// Operator-preference and realtime bookkeeping keys. These replace the
// browser-local storage the POS UI used: sound preference, seen order ids,
// acknowledged notification ids, and daily plan-banner dismissals.

func soundKey(operator string) string { return fmt.Sprintf("pref:sound:%s", operator) }
func seenKey(tenant string) string    { return fmt.Sprintf("rt:seen:%s", tenant) }
func readKey(tenant string) string    { return fmt.Sprintf("rt:read:%s", tenant) }
func dismissKey(tenant, day string) string {
	return fmt.Sprintf("plan:dismiss:%s:%s", tenant, day)
}

func (r *RedisRepository) SoundEnabled(ctx context.Context, operator string) (bool, error) {
	val, err := r.client.Get(ctx, soundKey(operator)).Result()
	if err == redis.Nil {
		return true, nil // sound on by default
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

func (r *RedisRepository) SetSoundEnabled(ctx context.Context, operator string, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	return r.client.Set(ctx, soundKey(operator), val, 0).Err()
}

func (r *RedisRepository) MarkOrderSeen(ctx context.Context, tenant, orderID string) error {
	return r.client.SAdd(ctx, seenKey(tenant), orderID).Err()
}

func (r *RedisRepository) OrderSeen(ctx context.Context, tenant, orderID string) (bool, error) {
	return r.client.SIsMember(ctx, seenKey(tenant), orderID).Result()
}

func (r *RedisRepository) MarkNotificationRead(ctx context.Context, tenant string, ids ...string) error {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return r.client.SAdd(ctx, readKey(tenant), members...).Err()
}

func (r *RedisRepository) NotificationRead(ctx context.Context, tenant, id string) (bool, error) {
	return r.client.SIsMember(ctx, readKey(tenant), id).Result()
}

// DismissPlanBanner suppresses the banner for the given calendar day. The key
// expires on its own well after the day boundary.
func (r *RedisRepository) DismissPlanBanner(ctx context.Context, tenant, day string) error {
	return r.client.Set(ctx, dismissKey(tenant, day), "1", 48*time.Hour).Err()
}

func (r *RedisRepository) PlanBannerDismissed(ctx context.Context, tenant, day string) (bool, error) {
	n, err := r.client.Exists(ctx, dismissKey(tenant, day)).Result()
	return n > 0, err
}
