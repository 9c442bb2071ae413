package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// blocklistKeyPrefix namespaces revoked token ids in Redis.
const blocklistKeyPrefix = "blocklist:"

// Blocklist records revoked token ids (jti) in Redis with a TTL equal to
// the access-token lifetime. After the TTL lapses the token has expired on
// its own, so the entry can be forgotten.
type Blocklist struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBlocklist creates a blocklist backed by the given Redis client. The
// ttl should be the access-token lifetime.
func NewBlocklist(client *redis.Client, ttl time.Duration) *Blocklist {
	return &Blocklist{client: client, ttl: ttl}
}

// Revoke adds a token id to the blocklist.
func (b *Blocklist) Revoke(ctx context.Context, jti string) error {
	if err := b.client.Set(ctx, blocklistKeyPrefix+jti, "revoked", b.ttl).Err(); err != nil {
		return fmt.Errorf("adding jti to blocklist: %w", err)
	}

	slog.Info("token revoked", slog.String("jti", jti))
	return nil
}

// IsRevoked reports whether a token id has been revoked.
//
// On a Redis error this FAILS OPEN: the token is treated as not revoked so
// a store outage does not lock every user out. Availability is chosen over
// strict revocation here on purpose; revoked tokens expire on their own
// within the access-token TTL regardless.
func (b *Blocklist) IsRevoked(ctx context.Context, jti string) bool {
	n, err := b.client.Exists(ctx, blocklistKeyPrefix+jti).Result()
	if err != nil {
		slog.Error("blocklist check failed, allowing token",
			slog.String("jti", jti),
			slog.Any("error", err),
		)
		return false
	}
	return n == 1
}
