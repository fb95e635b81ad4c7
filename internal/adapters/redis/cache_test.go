package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "santatecla_living/internal/adapters/redis"
)

func TestCache_RoundTripAndDel(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redisad.New(srv.Addr(), "", 0)
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
		N     int    `json:"n"`
	}

	var out payload
	ok, err := cache.Get(ctx, "apartments:list::it", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := cache.Set(ctx, "apartments:list::it", payload{Title: "Test A", N: 2}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = cache.Get(ctx, "apartments:list::it", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if out.Title != "Test A" || out.N != 2 {
		t.Fatalf("unexpected payload: %+v", out)
	}

	if err := cache.Del(ctx, "apartments:list::it"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = cache.Get(ctx, "apartments:list::it", &out)
	if ok {
		t.Fatalf("expected miss after del")
	}
}
