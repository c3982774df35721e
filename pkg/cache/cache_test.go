package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/docvault/pkg/cache"
)

// testTree 测试用的目录树片段.
type testTree struct {
	Category string   `json:"category"`
	Brands   []string `json:"brands"`
}

// mockKVStore 模拟KV存储实现.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(newMockKVStore())

	want := testTree{Category: "HVAC", Brands: []string{"Daikin", "Carrier"}}

	if err := cache.Set(ctx, c, "tree:HVAC", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := cache.Get[testTree](ctx, c, "tree:HVAC")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Category != want.Category || len(got.Brands) != 2 {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheGetMiss(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(newMockKVStore())

	if _, err := cache.Get[testTree](ctx, c, "missing"); err == nil {
		t.Error("Get on missing key should fail")
	}
}

func TestCacheGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(newMockKVStore())

	calls := 0
	getter := func() (testTree, error) {
		calls++
		return testTree{Category: "Linha Branca"}, nil
	}

	for range 3 {
		got, err := cache.GetOrSet(ctx, c, "tree", getter, time.Minute)
		if err != nil {
			t.Fatalf("GetOrSet: %v", err)
		}

		if got.Category != "Linha Branca" {
			t.Errorf("category = %q", got.Category)
		}
	}

	if calls != 1 {
		t.Errorf("getter called %d times, want 1", calls)
	}
}

func TestCacheGetOrSetGetterError(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(newMockKVStore())

	wantErr := errors.New("db down")

	_, err := cache.GetOrSet(ctx, c, "k", func() (testTree, error) {
		return testTree{}, wantErr
	}, time.Minute)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestFilterKeyStable(t *testing.T) {
	a := cache.FilterKey("docs", "HVAC", "Daikin", "2")
	b := cache.FilterKey("docs", "HVAC", "Daikin", "2")
	other := cache.FilterKey("docs", "HVAC", "Carrier", "2")

	if a != b {
		t.Errorf("same parts produced different keys: %q vs %q", a, b)
	}

	if a == other {
		t.Error("different parts produced identical keys")
	}
}
