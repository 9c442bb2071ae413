package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testBlocklist(t *testing.T) (*Blocklist, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBlocklist(client, time.Hour), mr
}

func TestBlocklist_RevokeAndCheck(t *testing.T) {
	bl, _ := testBlocklist(t)
	ctx := context.Background()

	if bl.IsRevoked(ctx, "jti-1") {
		t.Fatal("fresh jti reported as revoked")
	}

	if err := bl.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	if !bl.IsRevoked(ctx, "jti-1") {
		t.Fatal("revoked jti reported as valid")
	}
	if bl.IsRevoked(ctx, "jti-2") {
		t.Fatal("unrelated jti reported as revoked")
	}
}

func TestBlocklist_EntriesExpire(t *testing.T) {
	bl, mr := testBlocklist(t)
	ctx := context.Background()

	if err := bl.Revoke(ctx, "jti-expiring"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	// Entries only need to outlive the token they revoke.
	mr.FastForward(2 * time.Hour)

	if bl.IsRevoked(ctx, "jti-expiring") {
		t.Error("blocklist entry survived past its TTL")
	}
}

// When Redis is unreachable the check fails open: tokens are allowed
// through rather than locking every user out.
func TestBlocklist_FailsOpenOnStoreError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bl := NewBlocklist(client, time.Hour)

	ctx := context.Background()
	if err := bl.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	mr.Close()

	if bl.IsRevoked(ctx, "jti-1") {
		t.Error("expected IsRevoked to fail open when the store is down")
	}
}
