package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goliatone/go-errors"
)

// Blocklist tracks revoked token identifiers until their natural expiry.
type Blocklist interface {
	// Revoke records jti so subsequent verifications reject it.
	Revoke(ctx context.Context, jti string) error
	// IsRevoked reports whether jti was revoked. Absence means not revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

const blocklistKeyPrefix = "blocklist:"

// RedisBlocklist stores revoked jtis in redis with a TTL matching the longest
// token lifetime, so entries clean themselves up.
type RedisBlocklist struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

var _ Blocklist = (*RedisBlocklist)(nil)

// NewRedisBlocklist connects to the redis instance at redisURL and pings it
// before returning. Entries written by Revoke expire after ttl.
func NewRedisBlocklist(redisURL string, ttl time.Duration) (*RedisBlocklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid redis URL")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to connect to redis")
	}

	return &RedisBlocklist{
		client: client,
		ttl:    ttl,
		logger: defLogger{},
	}, nil
}

// NewRedisBlocklistWithClient wraps an existing client, e.g. one backed by a
// test server.
func NewRedisBlocklistWithClient(client *redis.Client, ttl time.Duration) *RedisBlocklist {
	return &RedisBlocklist{
		client: client,
		ttl:    ttl,
		logger: defLogger{},
	}
}

// SetLogger replaces the default logger.
func (b *RedisBlocklist) SetLogger(logger Logger) {
	b.logger = logger
}

func (b *RedisBlocklist) Revoke(ctx context.Context, jti string) error {
	if jti == "" {
		return errors.New("cannot revoke empty jti", errors.CategoryBadInput)
	}

	if err := b.client.Set(ctx, blocklistKeyPrefix+jti, "", b.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to write blocklist entry")
	}

	b.logger.Debug("blocklist: revoked jti %s", jti)
	return nil
}

func (b *RedisBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blocklistKeyPrefix+jti).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to read blocklist entry")
	}
	return n > 0, nil
}

func (b *RedisBlocklist) Close() error {
	return b.client.Close()
}
