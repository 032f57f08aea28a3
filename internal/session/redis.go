package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps tokens in Redis under prefix+"token:"+key and announces
// every write on a pub/sub channel so other instances can notify their
// subscribers.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type change struct {
	Key      string `json:"key"`
	LoggedIn bool   `json:"loggedIn"`
}

// NewRedisStore connects to redisURL, retrying the initial ping with
// exponential backoff.
func NewRedisStore(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err != nil {
			logger.Get().Warn().Err(err).Msg("Redis not reachable yet")
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, prefix, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) tokenKey(key string) string {
	return r.prefix + "token:" + key
}

func (r *RedisStore) channel() string {
	return r.prefix + "session-events"
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	token, err := r.client.Get(ctx, r.tokenKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get error: %w", err)
	}
	return token, nil
}

func (r *RedisStore) Set(ctx context.Context, key, token string) error {
	if err := r.client.Set(ctx, r.tokenKey(key), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	r.announce(ctx, change{Key: key, LoggedIn: true})
	return nil
}

func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.tokenKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	r.announce(ctx, change{Key: key, LoggedIn: false})
	return nil
}

// announce is best effort; the token write already succeeded and other
// tabs still see the new state on their next page load.
func (r *RedisStore) announce(ctx context.Context, c change) {
	payload, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.client.Publish(ctx, r.channel(), payload).Err(); err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to publish session change")
	}
}

// Watch delivers session changes published by any instance until ctx is
// cancelled.
func (r *RedisStore) Watch(ctx context.Context, ready func(), fn func(key string, ev Event)) error {
	sub := r.client.Subscribe(ctx, r.channel())
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe error: %w", err)
	}
	ready()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var c change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				logger.Get().Warn().Err(err).Msg("Dropping malformed session change")
				continue
			}
			fn(c.Key, Event{LoggedIn: c.LoggedIn})
		}
	}
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
