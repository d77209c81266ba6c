package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jekabolt/salon-analytics/internal/entity"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// Redis shares computed dashboards between service instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisClient(c RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
}

func NewRedis(client *redis.Client, c RedisConfig) *Redis {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "salon-analytics:dashboard:"
	}
	return &Redis{client: client, ttl: c.TTL, prefix: c.KeyPrefix}
}

func (r *Redis) Get(ctx context.Context, key string) (*entity.Dashboard, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("can't get dashboard from redis: %w", err)
	}
	var d entity.Dashboard
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, false, fmt.Errorf("can't decode cached dashboard: %w", err)
	}
	return &d, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, d *entity.Dashboard) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("can't encode dashboard: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("can't store dashboard in redis: %w", err)
	}
	return nil
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
