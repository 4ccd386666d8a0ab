package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, nil), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	stats := &Stats{OrgID: testOrgID.String(), Date: "2026-03-10", TodayCount: 7}
	cache.Set(ctx, stats)

	got := cache.Get(ctx, testOrgID, "2026-03-10")
	if got == nil {
		t.Fatal("expected cache hit")
	}
	if got.TodayCount != 7 {
		t.Errorf("today count = %d, want 7", got.TodayCount)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, _ := newCache(t)
	if got := cache.Get(context.Background(), testOrgID, "2026-03-10"); got != nil {
		t.Errorf("expected miss, got %+v", got)
	}
}

func TestInvalidateDropsAllDaysForOrg(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()
	otherOrg := uuid.MustParse("f2a3b6de-1c45-4ce1-92d1-000000000099")

	cache.Set(ctx, &Stats{OrgID: testOrgID.String(), Date: "2026-03-10"})
	cache.Set(ctx, &Stats{OrgID: testOrgID.String(), Date: "2026-03-11"})
	cache.Set(ctx, &Stats{OrgID: otherOrg.String(), Date: "2026-03-10"})

	cache.Invalidate(ctx, testOrgID)

	if cache.Get(ctx, testOrgID, "2026-03-10") != nil || cache.Get(ctx, testOrgID, "2026-03-11") != nil {
		t.Error("invalidated org should have no cached days")
	}
	if cache.Get(ctx, otherOrg, "2026-03-10") == nil {
		t.Error("other org's cache must survive")
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	cache.Set(ctx, &Stats{OrgID: testOrgID.String(), Date: "2026-03-10"})
	mr.FastForward(2 * time.Minute)

	if cache.Get(ctx, testOrgID, "2026-03-10") != nil {
		t.Error("entry should have expired")
	}
}
