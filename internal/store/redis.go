package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abhisek/gachadeck/internal/logger"
)

// RedisConfig configures the Redis progress backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisProgressRepo implements ProgressRepo on a single Redis string key.
type RedisProgressRepo struct {
	client *redis.Client
	key    string
	log    *logger.Logger
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg RedisConfig, key string, log *logger.Logger) (*RedisProgressRepo, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	log.Info("redis progress store connected", "addr", cfg.Addr, "key", key)
	return &RedisProgressRepo{client: client, key: key, log: log}, nil
}

func (r *RedisProgressRepo) Load(ctx context.Context) (Progress, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DefaultProgress(), nil
		}
		return DefaultProgress(), fmt.Errorf("read %s: %w", r.key, err)
	}
	p, err := decodeProgress(raw)
	if err != nil {
		r.log.Warn("discarding unreadable progress", "key", r.key, "error", err)
		return DefaultProgress(), nil
	}
	return p, nil
}

// Save merges under WATCH so a concurrent writer's keys are not lost.
func (r *RedisProgressRepo) Save(ctx context.Context, p Progress, fields ...Field) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := tx.Get(ctx, r.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		merged, err := mergeProgress(existing, p, fields)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, merged, 0)
			return nil
		})
		return err
	}, r.key)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (r *RedisProgressRepo) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (r *RedisProgressRepo) Close() error {
	return r.client.Close()
}
