// Package cache is a Redis read cache for hot counters (track likes and
// plays, playlist likes, profile followers). The ledger stays authoritative;
// mutations update the cache best-effort and readers fall back to the ledger
// on a miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/soundgraph/soundgraph/internal/addr"
	"github.com/soundgraph/soundgraph/internal/config"
)

// TTL is refreshed on every read or write of a counter key, so counters for
// active entities stay warm and idle ones age out.
const TTL = time.Hour

type Counters struct {
	Client *redis.Client
}

// NewCounters initializes the Redis client from config. Only Addr is
// mandatory, Password/DB are optional.
func NewCounters(cfg *config.Config) *Counters {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &Counters{Client: redis.NewClient(opts)}
}

func (c *Counters) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// Key builders. Counter keys embed the record address (or identity) so they
// can never collide across entities.

func KeyTrackLikes(a addr.Address) string    { return "track:likes:" + a.String() }
func KeyTrackPlays(a addr.Address) string    { return "track:plays:" + a.String() }
func KeyPlaylistLikes(a addr.Address) string { return "playlist:likes:" + a.String() }
func KeyFollowers(id addr.Identity) string   { return "profile:followers:" + id.String() }

// Get returns the cached counter value and whether the key was present.
func (c *Counters) Get(ctx context.Context, key string) (uint64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, TTL).Err()
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt counter at %s: %w", key, err)
	}
	return n, true, nil
}

// Set stores the authoritative counter value with a fresh TTL.
func (c *Counters) Set(ctx context.Context, key string, value uint64) error {
	return c.Client.Set(ctx, key, strconv.FormatUint(value, 10), TTL).Err()
}

// bumpScript checks existence and bumps in one atomic step, so a key that
// expires mid-operation can never be seeded from zero by the delta alone.
var bumpScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("INCRBY", KEYS[1], ARGV[1])
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`)

// Incr bumps a cached counter if present. Missing keys are left missing so
// the next read repopulates from the ledger instead of counting from zero.
func (c *Counters) Incr(ctx context.Context, key string) {
	c.bump(ctx, key, 1)
}

// Decr is the inverse of Incr.
func (c *Counters) Decr(ctx context.Context, key string) {
	c.bump(ctx, key, -1)
}

func (c *Counters) bump(ctx context.Context, key string, delta int64) {
	_ = bumpScript.Run(ctx, c.Client, []string{key}, delta, TTL.Milliseconds()).Err()
}

// Del drops cached counters, forcing the next read back to the ledger.
func (c *Counters) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}
