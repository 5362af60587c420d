package redis

import (
	"context"
	"testing"
	"time"

	"github.com/recordhub/recordhub-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func (f *fakeStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if s, ok := value.(string); ok {
		f.values[key] = s
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	if val, ok := f.values[key]; ok {
		return redis.NewStringResult(val, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) Incr(_ context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(1, nil)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestGetReturnsEmptyOnMiss(t *testing.T) {
	client := &Client{store: &fakeStore{values: map[string]string{}}}

	val, err := client.Get(context.Background(), Key("posts", "keyword", "x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "" {
		t.Fatalf("expected empty value on miss, got %q", val)
	}
}

func TestSetThenGetRoundTrips(t *testing.T) {
	client := &Client{store: &fakeStore{values: map[string]string{}}}
	key := Key("posts", "keyword", "go")

	if err := client.Set(context.Background(), key, `[{"id":1}]`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := client.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != `[{"id":1}]` {
		t.Fatalf("unexpected value %q", val)
	}
}

func TestKeyNamespacesParts(t *testing.T) {
	if got := Key("posts", "keyword", "go"); got != "rh:posts:keyword:go" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address provided")
	}
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
