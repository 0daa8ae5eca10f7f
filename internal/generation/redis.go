package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis делит поколения между репликами за балансировщиком.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logger.Info("Успешное подключение к Redis", "addr", addr)

	return &Redis{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping используется health check.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Next(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, SessionKey(key))
		if r.ttl > 0 {
			pipe.Expire(ctx, SessionKey(key), r.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка увеличения поколения: %w", err)
	}

	gen := incr.Val()
	r.logger.Debug("Поколение увеличено", "session", key, "generation", gen)
	return gen, nil
}

func (r *Redis) Current(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, SessionKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения поколения: %w", err)
	}

	gen, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("битое поколение для %s: %w", key, err)
	}
	return gen, nil
}

func SessionKey(session string) string {
	return "tripview:generation:" + session
}
