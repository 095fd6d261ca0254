package services

import (
	"context"
	"testing"
)

func TestContextValuesRoundTrip(t *testing.T) {
	ctx := WithItemID(context.Background(), "show/pilot")
	ctx = WithGroupID(ctx, "launch")
	ctx = WithRequestID(ctx, "req-1")

	if id, ok := ItemIDFromContext(ctx); !ok || id != "show/pilot" {
		t.Fatalf("item id = %q, %v", id, ok)
	}
	if id, ok := GroupIDFromContext(ctx); !ok || id != "launch" {
		t.Fatalf("group id = %q, %v", id, ok)
	}
	if id, ok := RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("request id = %q, %v", id, ok)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := WithItemID(context.Background(), "")
	if _, ok := ItemIDFromContext(ctx); ok {
		t.Fatal("expected empty item id to be ignored")
	}
	if _, ok := GroupIDFromContext(context.Background()); ok {
		t.Fatal("expected no group id on bare context")
	}
}
