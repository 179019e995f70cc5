package kv

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

var redisLogger = log.WithFields(log.Fields{
	"persistence": "redis",
})

// DefaultRedisTimeout bounds each command when no timeout is configured.
const DefaultRedisTimeout = 2 * time.Second

// RedisOptions configures a Redis store.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
	Timeout   time.Duration
}

// Redis stores keys in a redis database. Keys are prefixed with the
// namespace, if any, as "namespace:key".
type Redis struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

var _ KV = (*Redis)(nil)

// NewRedis connects lazily to the server described by opts.
func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisWithClient(client, opts.Namespace, opts.Timeout)
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, namespace string, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = DefaultRedisTimeout
	}
	return &Redis{client: client, namespace: namespace, timeout: timeout}
}

func (r *Redis) key(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func (r *Redis) Get(key string) (string, bool, error) {
	if r.client == nil {
		return "", false, errors.New("redis store is not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	id := r.key(key)
	data, err := r.client.Get(ctx, id).Result()
	if err != nil {
		if err == redis.Nil {
			redisLogger.Debugf("[redis] get key %q, not found", id)
			return "", false, nil
		}
		return "", false, err
	}
	redisLogger.Debugf("[redis] get key %q, data = %s", id, data)
	return data, true, nil
}

func (r *Redis) Set(key, value string) error {
	if r.client == nil {
		return errors.New("redis store is not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	id := r.key(key)
	_, err := r.client.Set(ctx, id, value, 0).Result()
	redisLogger.Debugf("[redis] set key %q, data = %s", id, value)
	return err
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
