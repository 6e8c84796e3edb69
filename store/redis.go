package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"shortform-studio/types"
)

const sessionKeyPrefix = "session:"

// RedisStore persists sessions in Redis with a TTL, so a conversation can
// resume across process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the Redis instance named by REDIS_URL.
func NewRedisStore(ctx context.Context, ttl time.Duration) (*RedisStore, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*types.WorkflowSession, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return newSession(id), nil
		}
		return nil, err
	}

	var sess types.WorkflowSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if sess.Artifacts == nil {
		sess.Artifacts = types.Artifacts{}
	}

	// Refresh TTL on every read so active conversations never expire mid-flight.
	r.client.Expire(ctx, sessionKeyPrefix+id, r.ttl)
	return &sess, nil
}

func (r *RedisStore) Save(ctx context.Context, sess *types.WorkflowSession) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return r.client.Set(ctx, sessionKeyPrefix+sess.ID, data, r.ttl).Err()
}
