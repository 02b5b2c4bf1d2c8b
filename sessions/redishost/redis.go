package redishost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ggoodman/flash-go/sessions"
	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "flash:sessions:"

// Config for Redis-backed Host. Defaults can be loaded via envdecode.
type Config struct {
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: SESSIONS_KEY_PREFIX
	KeyPrefix string `env:"SESSIONS_KEY_PREFIX,default=flash:sessions:"`
}

type Host struct {
	client    *redis.Client
	keyPrefix string
}

func New(cfg Config) (*Host, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Host{client: cl, keyPrefix: prefix}, nil
}

// NewFromEnv builds a Host using envdecode to populate Config.
func NewFromEnv() (*Host, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode redis config: %w", err)
	}
	return New(cfg)
}

// Close closes the Redis client.
func (h *Host) Close() error { return h.client.Close() }

func (h *Host) sessionKey(sessionID string) string { return h.keyPrefix + sessionID }

func (h *Host) Load(ctx context.Context, sessionID string) ([]byte, error) {
	b, err := h.client.Get(ctx, h.sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session %s: %w", sessionID, err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func (h *Host) Save(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := h.client.Set(ctx, h.sessionKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", sessionID, err)
	}
	return nil
}

func (h *Host) Destroy(ctx context.Context, sessionID string) error {
	if err := h.client.Del(ctx, h.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del session %s: %w", sessionID, err)
	}
	return nil
}

// Interface compliance
var _ sessions.Host = (*Host)(nil)
