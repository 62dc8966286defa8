package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked JWTs until their natural expiration so that
// logout takes effect immediately. Redis keys with TTL are preferred; an
// in-memory map backs the feature when Redis is unavailable.
type TokenBlacklist struct {
	client *redis.Client

	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewTokenBlacklist creates a blacklist. A nil client selects the in-memory fallback.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{
		client:  client,
		revoked: map[string]time.Time{},
	}
}

// Revoke stores a token until its expiration.
func (b *TokenBlacklist) Revoke(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if b.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := b.client.Set(ctx, "jwt:blacklist:"+token, "1", ttl).Err(); err == nil {
			return
		}
	}
	b.mu.Lock()
	b.revoked[token] = expiresAt
	b.mu.Unlock()
}

// IsRevoked reports whether a token was revoked before natural expiration.
func (b *TokenBlacklist) IsRevoked(token string) bool {
	if b == nil {
		return false
	}
	if b.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if n, err := b.client.Exists(ctx, "jwt:blacklist:"+token).Result(); err == nil {
			if n > 0 {
				return true
			}
			// fall through to the in-memory map in case Redis was down at Revoke time
		}
	}
	b.mu.RLock()
	expiresAt, ok := b.revoked[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		b.mu.Lock()
		delete(b.revoked, token)
		b.mu.Unlock()
		return false
	}
	return true
}
