// Package redis stores the agent session in a Redis hash so several agent
// processes can share one login.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "dashboard:session:"

// KV keeps every session key as a field of one hash. HSET with several
// fields is a single command, so multi-key writes are atomic.
type KV struct {
	client goredis.Cmdable
	key    string
}

func NewKV(client goredis.Cmdable, instanceID string) *KV {
	return &KV{client: client, key: keyPrefix + instanceID}
}

func (r *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *KV) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]interface{}, 0, 2*len(values))
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := r.client.HSet(ctx, r.key, args...).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", r.key, err)
	}
	return nil
}

func (r *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", r.key, err)
	}
	return nil
}
