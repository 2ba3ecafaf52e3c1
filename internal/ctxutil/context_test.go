package ctxutil

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()

	if id, ok := GetRequestID(ctx); ok || id != "" {
		t.Errorf("Expected no request ID on empty context, got %q", id)
	}

	ctx = WithRequestID(ctx, "req-123")
	id, ok := GetRequestID(ctx)
	if !ok || id != "req-123" {
		t.Errorf("Expected request ID 'req-123', got %q (ok=%v)", id, ok)
	}
}

func TestSenderID(t *testing.T) {
	ctx := context.Background()

	if got := GetSenderID(ctx); got != "" {
		t.Errorf("Expected empty sender ID on empty context, got %q", got)
	}

	ctx = WithSenderID(ctx, "whatsapp:+233200000000")
	if got := GetSenderID(ctx); got != "whatsapp:+233200000000" {
		t.Errorf("Expected sender ID to round-trip, got %q", got)
	}
}
