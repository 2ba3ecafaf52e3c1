package ratelimit

import (
	"testing"
	"time"
)

func TestPerKeyIsolation(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:  1,
		RefillRate: 0.001,
	})
	defer pkl.Stop()

	if !pkl.Allow("sender-a") {
		t.Fatal("First request for sender-a should be allowed")
	}
	if pkl.Allow("sender-a") {
		t.Error("Second request for sender-a should be denied")
	}

	// A different key has its own bucket
	if !pkl.Allow("sender-b") {
		t.Error("First request for sender-b should be allowed")
	}
}

func TestPerKeyEmptyKeyNeverLimited(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:  1,
		RefillRate: 0.001,
	})
	defer pkl.Stop()

	for i := 0; i < 10; i++ {
		if !pkl.Allow("") {
			t.Fatal("Empty key should never be rate limited")
		}
	}
}

func TestPerKeyOnDrop(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:  1,
		RefillRate: 0.001,
	})
	defer pkl.Stop()

	drops := 0
	pkl.OnDrop(func() { drops++ })

	pkl.Allow("sender-a")
	pkl.Allow("sender-a")
	pkl.Allow("sender-a")

	if drops != 2 {
		t.Errorf("Expected 2 drops, got %d", drops)
	}
}

func TestPerKeyCleanup(t *testing.T) {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:  1,
		RefillRate: 1000, // Refills instantly, so buckets are always "inactive"
	})
	defer pkl.Stop()

	pkl.Allow("sender-a")
	pkl.Allow("sender-b")
	if pkl.ActiveCount() != 2 {
		t.Fatalf("Expected 2 tracked keys, got %d", pkl.ActiveCount())
	}

	time.Sleep(5 * time.Millisecond)
	pkl.cleanup()

	if pkl.ActiveCount() != 0 {
		t.Errorf("Expected inactive limiters to be cleaned up, got %d", pkl.ActiveCount())
	}
}
