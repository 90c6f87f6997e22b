package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

var _ port.RecentSearchesStorage = (*Redis)(nil)

// A Redis keeps recent searches in a Redis list. When the server cannot
// be reached at startup it works as a no-op store.
type Redis struct {
	client *redis.Client
	key    string
}

func NewRedis(ctx context.Context, opts *redis.Options, key string) *Redis {
	const op = "NewRedis"
	log := slog.With("op", op)

	if key == "" {
		key = DefaultRecentKey
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis is unavailable, recent searches are not persisted",
			"addr", opts.Addr, "err", err,
		)
		_ = client.Close()
		return &Redis{key: key}
	}

	log.Info("redis is available", "addr", opts.Addr)
	return &Redis{client: client, key: key}
}

// Available reports whether the store is backed by a live connection.
func (s *Redis) Available() bool {
	return s.client != nil
}

func (s *Redis) LoadRecent(ctx context.Context) ([]string, error) {
	const op = "Redis.LoadRecent"

	if s.client == nil {
		return nil, nil
	}

	terms, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return terms, nil
}

func (s *Redis) SaveRecent(ctx context.Context, terms []string) error {
	const op = "Redis.SaveRecent"

	if s.client == nil {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(terms) > 0 {
			values := make([]any, len(terms))
			for i, t := range terms {
				values[i] = t
			}
			pipe.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Redis) Close() {
	const op = "Redis.Close"
	log := slog.With("op", op)

	if s.client == nil {
		return
	}
	if err := s.client.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("redis client is closed")
}
