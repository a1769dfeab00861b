package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/pantrypal/pantrypal/pkg/metrics"
)

// Data is the server-side payload of one session.
type Data map[string]interface{}

// Store persists session data by id. Load reports found=false for unknown
// or expired ids.
type Store interface {
	Load(ctx context.Context, id string) (data Data, found bool, err error)
	Save(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ------------------- Redis -------------------

const redisPrefix = "pantrypal:session:"

func redisKey(id string) string { return redisPrefix + id }

// RedisStore keeps sessions in Redis as JSON with a TTL.
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// DialRedis connects and pings so a bad address fails at startup.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (Data, bool, error) {
	raw, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.SessionOp("redis", "load", "miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.SessionOp("redis", "load", "error")
		return nil, false, fmt.Errorf("session: redis load: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		metrics.SessionOp("redis", "load", "error")
		return nil, false, fmt.Errorf("session: decode: %w", err)
	}
	metrics.SessionOp("redis", "load", "hit")
	return data, true, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, data Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(id), raw, ttl).Err(); err != nil {
		metrics.SessionOp("redis", "save", "error")
		return fmt.Errorf("session: redis save: %w", err)
	}
	metrics.SessionOp("redis", "save", "ok")
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		metrics.SessionOp("redis", "destroy", "error")
		return fmt.Errorf("session: redis delete: %w", err)
	}
	metrics.SessionOp("redis", "destroy", "ok")
	return nil
}

// ------------------- Memory -------------------

// memorySweep is how often expired in-process sessions are purged.
const memorySweep = 10 * time.Minute

// MemoryStore keeps sessions in process. Payloads are JSON-encoded like
// RedisStore so both drivers hand back identical types.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, memorySweep)}
}

func (s *MemoryStore) Load(_ context.Context, id string) (Data, bool, error) {
	v, ok := s.c.Get(id)
	if !ok {
		metrics.SessionOp("memory", "load", "miss")
		return nil, false, nil
	}

	var data Data
	if err := json.Unmarshal(v.([]byte), &data); err != nil {
		return nil, false, fmt.Errorf("session: decode: %w", err)
	}
	metrics.SessionOp("memory", "load", "hit")
	return data, true, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data Data, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s.c.Set(id, raw, ttl)
	metrics.SessionOp("memory", "save", "ok")
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.c.Delete(id)
	metrics.SessionOp("memory", "destroy", "ok")
	return nil
}

// Len reports how many sessions are held, expired but unswept ones included.
func (s *MemoryStore) Len() int { return s.c.ItemCount() }
