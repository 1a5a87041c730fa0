package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит окна в Redis, чтобы лимит был общим для нескольких инстансов.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisClient парсит REDIS_URL и проверяет соединение.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// takeScript: счётчик и момент сброса живут в одном хеше. reset пишется
// только первым запросом окна, поэтому все ответы окна видят одно и то же время.
var takeScript = redis.NewScript(`
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
if count == 1 then
	redis.call('HSET', KEYS[1], 'reset', ARGV[2])
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('HGET', KEYS[1], 'reset')}
`)

func (s *RedisStore) Take(ctx context.Context, key string, p Policy) (Result, error) {
	key = "ratelimit:" + key
	now := s.now()

	vals, err := takeScript.Run(ctx, s.client, []string{key},
		p.Window.Milliseconds(), now.Add(p.Window).UnixMilli()).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit redis: %w", err)
	}
	if len(vals) != 2 {
		return Result{}, fmt.Errorf("ratelimit redis: unexpected reply %v", vals)
	}

	count, _ := vals[0].(int64)
	resetAt := now.Add(p.Window)
	if raw, ok := vals[1].(string); ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			resetAt = time.UnixMilli(ms)
		}
	}

	if int(count) > p.Limit {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return Result{Allowed: true, Remaining: p.Limit - int(count), ResetAt: resetAt}, nil
}

// WithClock подменяет часы, по которым считается момент сброса.
func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}
