package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a JSON value cache.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Redis struct {
	RDB *redis.Client
}

func NewRedis(addr, password string) *Redis {
	return &Redis{RDB: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.RDB.Ping(ctx).Err()
}

// Get reports false without error on a cache miss.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	if r == nil || r.RDB == nil {
		return false, nil
	}

	val, err := r.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r == nil || r.RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, key, data, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r == nil || r.RDB == nil {
		return nil
	}
	return r.RDB.Del(ctx, key).Err()
}

func (r *Redis) Close() error {
	if r == nil || r.RDB == nil {
		return nil
	}
	return r.RDB.Close()
}
