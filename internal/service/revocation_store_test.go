package service

import (
	"testing"
	"time"
)

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()

	revoked, err := store.IsRevoked("jti-1")
	if err != nil || revoked {
		t.Fatalf("unknown jti should not be revoked: %v %v", revoked, err)
	}

	if err := store.Revoke("jti-1", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = store.IsRevoked("jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti revoked: %v %v", revoked, err)
	}
}

func TestMemoryRevocationStore_EntriesExpire(t *testing.T) {
	store := NewMemoryRevocationStore()

	if err := store.Revoke("jti-1", -time.Second); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := store.IsRevoked("jti-1")
	if err != nil || revoked {
		t.Fatalf("expired entry should not count as revoked: %v %v", revoked, err)
	}
}

func TestMemoryRevocationStore_IgnoresEmptyJTI(t *testing.T) {
	store := NewMemoryRevocationStore()
	if err := store.Revoke("", time.Minute); err != nil {
		t.Fatalf("revoke empty jti: %v", err)
	}
	revoked, err := store.IsRevoked("")
	if err != nil || revoked {
		t.Fatalf("empty jti should never be revoked: %v %v", revoked, err)
	}
}
