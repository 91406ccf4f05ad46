package ctxutil

import (
	"context"
	"testing"
)

func TestActor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, ok := ActorFromCtx(ctx); ok {
		t.Fatal("empty context should carry no actor")
	}

	ctx = WithActor(ctx, "maria")
	actor, ok := ActorFromCtx(ctx)
	if !ok || actor != "maria" {
		t.Fatalf("ActorFromCtx = %q, %v", actor, ok)
	}

	if _, ok := ActorFromCtx(WithActor(context.Background(), "")); ok {
		t.Fatal("empty actor should read as absent")
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("RequestIDFromCtx on empty context = %q", got)
	}

	ctx := WithRequestID(context.Background(), "req-123")
	if got := RequestIDFromCtx(ctx); got != "req-123" {
		t.Fatalf("RequestIDFromCtx = %q", got)
	}
}

func TestDeviceID(t *testing.T) {
	t.Parallel()

	if _, ok := DeviceIDFromCtx(context.Background()); ok {
		t.Fatal("empty context should carry no device id")
	}

	ctx := WithDeviceID(context.Background(), "tablet-1")
	id, ok := DeviceIDFromCtx(ctx)
	if !ok || id != "tablet-1" {
		t.Fatalf("DeviceIDFromCtx = %q, %v", id, ok)
	}
}
