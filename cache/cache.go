package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "freescout:"

// indexKey tracks cached keys by insertion time so the store can cap its
// entry count.
const indexKey = keyPrefix + "cache_index"

// Store is a best-effort response cache backed by redis. Every method is
// safe to call on a disabled store (no redis configured or unreachable);
// reads miss and writes are dropped. Upstream data is never served stale
// beyond the configured TTL.
type Store struct {
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	enabled    bool
}

func New(addr, password string, db int, ttl time.Duration, maxEntries int) *Store {
	if addr == "" {
		log.Info().Msg("Response cache disabled (no REDIS_ADDR configured)")
		return &Store{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	store := &Store{
		rdb:        rdb,
		ttl:        ttl,
		maxEntries: maxEntries,
		enabled:    true,
	}

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).
			Str("addr", addr).
			Msg("Redis unreachable, response cache disabled")
		store.enabled = false
		return store
	}

	log.Info().
		Str("addr", addr).
		Int("db", db).
		Dur("ttl", ttl).
		Msg("Response cache connected")

	return store
}

// Get unmarshals a cached value into out. Returns false on miss, decode
// failure, or when the cache is disabled.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	if !s.enabled {
		return false
	}

	raw, err := s.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, ignoring")
		return false
	}
	return true
}

// Set stores a value under key with the configured TTL and trims the
// oldest entries past the configured cap.
func (s *Store) Set(ctx context.Context, key string, value any) {
	if !s.enabled {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache value not serializable")
		return
	}

	if err := s.rdb.Set(ctx, keyPrefix+key, raw, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		return
	}

	s.trim(ctx, key)
}

func (s *Store) trim(ctx context.Context, key string) {
	if s.maxEntries <= 0 {
		return
	}

	score := float64(time.Now().UnixNano())
	s.rdb.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: keyPrefix + key})

	count, err := s.rdb.ZCard(ctx, indexKey).Result()
	if err != nil || count <= int64(s.maxEntries) {
		return
	}

	oldest, err := s.rdb.ZPopMin(ctx, indexKey, count-int64(s.maxEntries)).Result()
	if err != nil {
		return
	}
	for _, entry := range oldest {
		if member, ok := entry.Member.(string); ok {
			s.rdb.Del(ctx, member)
		}
	}
}
