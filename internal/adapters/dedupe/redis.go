package dedupe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "catcare:wa:msg:"

var ErrEmptyID = errors.New("message id is required")

// OpenRedis parsea la URL (redis://...) y valida la conexión con un ping.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisGuard comparte el registro de mensajes vistos entre réplicas.
type RedisGuard struct {
	store store
	ttl   time.Duration
}

func NewRedisGuard(client store, ttl time.Duration) *RedisGuard {
	return &RedisGuard{store: client, ttl: ttl}
}

// CheckAndMark devuelve true si el id ya estaba marcado.
func (g *RedisGuard) CheckAndMark(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrEmptyID
	}
	set, err := g.store.SetNX(ctx, keyPrefix+id, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

func (g *RedisGuard) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := g.store.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete idempotency key: %w", err)
	}
	return nil
}
