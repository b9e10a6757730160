//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("TREEPRINT_REDIS_ADDR")
	if addr == "" {
		t.Skip("TREEPRINT_REDIS_ADDR not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Namespace: "treeprint-test-" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get on empty = %v, %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); !hit || err != nil || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	for i := range 300 {
		if err := c.Set(ctx, uuid.NewString(), []byte{byte(i)}, time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Clear")
	}
}
