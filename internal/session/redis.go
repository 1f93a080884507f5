package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/types"
)

// RedisStore keeps sessions as JSON blobs with a TTL, so session state
// survives process restarts when REDIS_ADDR is configured. Mutations are
// serialized in-process; the service runs as a single instance.
type RedisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
	mu  sync.Mutex
}

func NewRedisStore(log *logger.Logger, addr string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{
		log: log.With("service", "RedisSessionStore"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

func redisKey(key string) string { return "session:" + key }

func (s *RedisStore) Get(ctx context.Context, key string) (*types.Session, error) {
	raw, err := s.rdb.Get(ctx, redisKey(key)).Bytes()
	if err == goredis.Nil {
		return &types.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var sess types.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt blob should not wedge the session forever.
		s.log.Warn("dropping unreadable session blob", "key", key, "error", err)
		_ = s.rdb.Del(ctx, redisKey(key)).Err()
		return &types.Session{}, nil
	}
	return &sess, nil
}

func (s *RedisStore) SetDocument(ctx context.Context, key string, doc *types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, key, func(sess *types.Session) {
		sess.Document = doc
	})
}

func (s *RedisStore) AppendTurn(ctx context.Context, key string, turn types.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, key, func(sess *types.Session) {
		sess.History = append(sess.History, turn)
	})
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) update(ctx context.Context, key string, mutate func(*types.Session)) error {
	sess, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	mutate(sess)
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
