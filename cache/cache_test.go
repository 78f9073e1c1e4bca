package cache

import (
	"testing"
	"time"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	key := GenerateKey("gemma3:12b", "English", "Italian", "Hello")

	if _, ok := c.Get(key); ok {
		t.Fatal("Get() on empty cache returned an entry")
	}

	want := &Entry{
		Text:      "Ciao",
		Usage:     Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := c.Set(key, want, DefaultTTL); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() missed a stored entry")
	}
	if got.Text != want.Text || got.Usage != want.Usage || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCache_DeleteAndPurge(t *testing.T) {
	c := newTestCache(t)

	for _, k := range []string{"a", "b"} {
		if err := c.Set(k, &Entry{Text: k}, 0); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}

	if err := c.Purge(); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("purged key still present")
	}
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("m", "English", "Italian", "Hi")
	b := GenerateKey("m", "English", "Italian", "Hi")
	if a != b {
		t.Error("GenerateKey is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64", len(a))
	}

	// Part boundaries must matter.
	if GenerateKey("ab", "c") == GenerateKey("a", "bc") {
		t.Error("GenerateKey ignores part boundaries")
	}
}
