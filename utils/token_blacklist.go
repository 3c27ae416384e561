package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist remembers revoked tokens until they would have expired.
// Entries go to Redis when a client is available and to memory otherwise.
type TokenBlacklist struct {
	rc  *redis.Client
	now func() time.Time

	mu      sync.Mutex
	entries map[string]time.Time
}

// NewTokenBlacklist creates a blacklist. rc may be nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, now: time.Now, entries: map[string]time.Time{}}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Revoke blacklists token until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	key := tokenKey(token)
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return b.rc.Set(ctx, blacklistPrefix+key, "1", ttl).Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pruneLocked()
	b.entries[key] = expiresAt
	return nil
}

// IsRevoked reports whether token was revoked. Redis errors fail open so an
// outage does not lock every user out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	key := tokenKey(token)
	if b.rc != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		n, err := b.rc.Exists(ctx, blacklistPrefix+key).Result()
		return err == nil && n > 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.entries[key]
	if !ok {
		return false
	}
	if b.now().After(exp) {
		delete(b.entries, key)
		return false
	}
	return true
}

func (b *TokenBlacklist) pruneLocked() {
	now := b.now()
	for k, exp := range b.entries {
		if now.After(exp) {
			delete(b.entries, k)
		}
	}
}
