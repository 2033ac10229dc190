package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker keeps a per-principal cutoff. Tokens issued at or before the
// cutoff are rejected even though their signature and expiry are fine.
type TokenRevoker interface {
	RevokePrincipal(ctx context.Context, principalID int64, cutoff time.Time) error
	RevokedAfter(ctx context.Context, principalID int64) (time.Time, error)
}

// MemoryTokenRevoker keeps cutoffs in process (single instance only).
type MemoryTokenRevoker struct {
	mu      sync.Mutex
	ttl     time.Duration
	cutoffs map[int64]memoryCutoff
}

type memoryCutoff struct {
	at      time.Time
	expires time.Time
}

// NewMemoryTokenRevoker builds an in-memory revoker. Entries are dropped after
// ttl, by which point every token they could match has expired.
func NewMemoryTokenRevoker(ttl time.Duration) *MemoryTokenRevoker {
	return &MemoryTokenRevoker{
		ttl:     ttl,
		cutoffs: make(map[int64]memoryCutoff),
	}
}

// RevokePrincipal records cutoff unless a later one is already stored.
func (r *MemoryTokenRevoker) RevokePrincipal(_ context.Context, principalID int64, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff = cutoff.UTC()
	if current, ok := r.cutoffs[principalID]; ok && current.at.After(cutoff) && time.Now().Before(current.expires) {
		return nil
	}
	r.cutoffs[principalID] = memoryCutoff{at: cutoff, expires: time.Now().Add(r.ttl)}
	return nil
}

// RevokedAfter returns the stored cutoff, or the zero time when none is active.
func (r *MemoryTokenRevoker) RevokedAfter(_ context.Context, principalID int64) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.cutoffs[principalID]
	if !ok {
		return time.Time{}, nil
	}
	if time.Now().After(current.expires) {
		delete(r.cutoffs, principalID)
		return time.Time{}, nil
	}
	return current.at, nil
}

// Keeps the larger of the stored and the new cutoff and refreshes the TTL.
var revokeScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current and tonumber(current) >= tonumber(ARGV[1]) then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// RedisTokenRevoker stores cutoffs in Redis so every instance sees them.
type RedisTokenRevoker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenRevoker builds a Redis-backed revoker.
func NewRedisTokenRevoker(client *redis.Client, ttl time.Duration) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client, ttl: ttl}
}

func (r *RedisTokenRevoker) RevokePrincipal(ctx context.Context, principalID int64, cutoff time.Time) error {
	return revokeScript.Run(ctx, r.client,
		[]string{revocationKey(principalID)},
		cutoff.UnixMilli(), r.ttl.Milliseconds(),
	).Err()
}

func (r *RedisTokenRevoker) RevokedAfter(ctx context.Context, principalID int64) (time.Time, error) {
	raw, err := r.client.Get(ctx, revocationKey(principalID)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(millis).UTC(), nil
}

// Ping checks the connection at startup.
func (r *RedisTokenRevoker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func revocationKey(principalID int64) string {
	return revocationKeyPrefix + strconv.FormatInt(principalID, 10)
}
