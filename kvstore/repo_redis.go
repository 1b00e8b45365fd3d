package kvstore

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/go-spa-session/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Batch = (*RedisRepo)(nil)

// RedisRepo stores values as plain Redis strings under a key prefix.
type RedisRepo struct {
	rdb    redis.UniversalClient
	prefix string
}

// RedisOptions configures NewRedisRepo.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisRepo connects to Redis and verifies the connection with a PING.
func NewRedisRepo(ctx context.Context, opts RedisOptions) (*RedisRepo, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("[kvstore NewRedisRepo] redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("[kvstore NewRedisRepo] ping: %w", err)
	}
	return NewRedisRepoFromClient(rdb, opts.KeyPrefix), nil
}

// NewRedisRepoFromClient wraps an existing client. The repo takes ownership
// of the client and closes it in Close.
func NewRedisRepoFromClient(rdb redis.UniversalClient, prefix string) *RedisRepo {
	return &RedisRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisRepo) key(k string) string {
	return r.prefix + k
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, apperrors.ErrEmptyKey
	}
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperrors.ErrEmptyKey
	}
	if err := r.rdb.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Remove(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.ErrEmptyKey
	}
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// SetAll writes every entry inside one MULTI/EXEC transaction.
func (r *RedisRepo) SetAll(ctx context.Context, values map[string]string) error {
	for k := range values {
		if k == "" {
			return apperrors.ErrEmptyKey
		}
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis multi set: %w", err)
	}
	return nil
}

// RemoveAll deletes every key with a single DEL.
func (r *RedisRepo) RemoveAll(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, r.key(k))
	}
	if err := r.rdb.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.rdb.Close()
}
