package password

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	// MinCost keeps the test fast; the contract is the same at any cost
	hasher := NewHasher(bcrypt.MinCost)
	ctx := context.Background()

	digest, err := hasher.Hash(ctx, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "correct horse battery staple" {
		t.Fatal("Digest must not equal the secret")
	}

	ok, err := hasher.Verify(ctx, digest, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("Expected matching secret to verify")
	}

	ok, err = hasher.Verify(ctx, digest, "wrong password")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("Expected non-matching secret to fail verification")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "same secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash(ctx, "same secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("Two hashes of the same secret must differ (random salt)")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if _, err := hasher.Verify(context.Background(), "not-a-bcrypt-digest", "secret"); err == nil {
		t.Error("Expected error for malformed digest, got nil")
	}
}

func TestCancelledContext(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := hasher.Hash(ctx, "secret"); err == nil {
		t.Error("Expected error for cancelled context on Hash, got nil")
	}
	if _, err := hasher.Verify(ctx, "digest", "secret"); err == nil {
		t.Error("Expected error for cancelled context on Verify, got nil")
	}
}

func TestInvalidCostFallsBack(t *testing.T) {
	hasher := NewHasher(99)
	if hasher.cost != DefaultCost {
		t.Errorf("Expected fallback to DefaultCost, got %d", hasher.cost)
	}
}
