package service

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher()

	digest, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "pw123" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("unexpected digest format: %q", digest)
	}

	if !h.Verify("pw123", digest) {
		t.Fatalf("expected verify to succeed")
	}
	if h.Verify("wrong", digest) {
		t.Fatalf("expected verify to fail for wrong password")
	}
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	h := NewPasswordHasher()

	d1, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	d2, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("expected per-call salt to produce distinct digests")
	}
}

func TestPasswordHasher_RejectsEmptyAndMalformedDigests(t *testing.T) {
	h := NewPasswordHasher()

	if h.Verify("pw123", "") {
		t.Fatalf("empty digest must not verify")
	}
	if h.Verify("", "") {
		t.Fatalf("empty password and digest must not verify")
	}
	if h.Verify("pw123", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest must not verify")
	}
}

func TestPasswordHasher_RejectsEmptyPassword(t *testing.T) {
	h := NewPasswordHasher()
	if _, err := h.Hash(""); err == nil {
		t.Fatalf("expected error hashing empty password")
	}
}
