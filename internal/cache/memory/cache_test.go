package memory

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	cache := New(5 * time.Second)
	defer cache.Stop()

	cache.Set("google:rust", "cached-response")

	got, ok := cache.Get("google:rust")
	if !ok {
		t.Fatal("Get() should return ok=true for existing key")
	}
	if got != "cached-response" {
		t.Errorf("Get() = %v", got)
	}
}

func TestCache_GetMissing(t *testing.T) {
	cache := New(5 * time.Second)
	defer cache.Stop()

	if _, ok := cache.Get("absent"); ok {
		t.Error("Get() should return ok=false for a missing key")
	}
}

func TestCache_Expiry(t *testing.T) {
	cache := New(50 * time.Millisecond)
	defer cache.Stop()

	cache.Set("k", "v")
	if _, ok := cache.Get("k"); !ok {
		t.Fatal("key should exist before expiry")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("k"); ok {
		t.Error("key should be expired")
	}
}

func TestCache_Clear(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Stop()

	cache.Set("a", 1)
	cache.Set("b", 2)

	if n := cache.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after clear", cache.Len())
	}
}

func TestCache_Overwrite(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Stop()

	cache.Set("k", "old")
	cache.Set("k", "new")

	got, _ := cache.Get("k")
	if got != "new" {
		t.Errorf("Get() = %v, want new", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCache_StopIsIdempotent(t *testing.T) {
	cache := New(time.Minute)
	cache.Stop()
	cache.Stop()
}
