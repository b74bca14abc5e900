package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testCache(t *testing.T) (*TemplateCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewFromClient(client, time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "org-1"); err != nil || found {
		t.Fatalf("empty cache: found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, "org-1", "saas"); err != nil {
		t.Fatal(err)
	}

	value, found, err := c.Get(ctx, "org-1")
	if err != nil || !found || value != "saas" {
		t.Fatalf("get after set: %q found=%v err=%v", value, found, err)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "org-1", "saas"); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(ctx, "org-1"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(Key("org-1")) {
		t.Error("key survived invalidation")
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "org-1", "saas"); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Hour)

	if _, found, err := c.Get(ctx, "org-1"); err != nil || found {
		t.Errorf("expired entry still present: found=%v err=%v", found, err)
	}
}
