package store

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_Contract(t *testing.T) {
	s, _ := newTestRedis(t)
	runStoreContract(t, s)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t, WithPrefix("tenant42:"))

	if err := s.Put(ctx, "doc", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	for _, key := range mr.Keys() {
		if !strings.HasPrefix(key, "tenant42:") {
			t.Errorf("key %q missing prefix", key)
		}
	}
	if got, err := s.Get(ctx, "doc"); err != nil || string(got) != "{}" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestRedisStore_DeleteClearsIndex(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)

	if err := s.Put(ctx, "doc", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "doc"); err != nil {
		t.Fatal(err)
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("List() after delete = %v, want empty", names)
	}
}
