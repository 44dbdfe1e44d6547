package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestStore_GetMiss(t *testing.T) {
	s := New(10, time.Minute)

	if v, ok := s.Get(KindMetadata, "https://www.tiktok.com/@a/video/1"); ok || v != nil {
		t.Errorf("empty store lookup = (%v, %v), want (nil, false)", v, ok)
	}
}

func TestStore_PutThenGet(t *testing.T) {
	s := New(10, time.Minute)
	url := "https://www.tiktok.com/@a/video/1"

	s.Put(KindMetadata, url, "meta")

	v, ok := s.Get(KindMetadata, url)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v != "meta" {
		t.Errorf("value = %v, want %q", v, "meta")
	}
}

func TestStore_KindsAreSeparateNamespaces(t *testing.T) {
	s := New(10, time.Minute)
	url := "https://www.tiktok.com/@a/video/1"

	s.Put(KindMetadata, url, "meta")

	if _, ok := s.Get(KindTranscript, url); ok {
		t.Error("transcript lookup should miss when only metadata is cached")
	}
}

func TestStore_ConfirmedAbsentIsAHit(t *testing.T) {
	s := New(10, time.Minute)
	url := "https://www.tiktok.com/@a/video/1"

	s.Put(KindTranscript, url, nil)

	v, ok := s.Get(KindTranscript, url)
	if !ok {
		t.Fatal("confirmed-absent entry should be a cache hit")
	}
	if v != nil {
		t.Errorf("value = %v, want nil (absent marker)", v)
	}
}

func TestStore_EvictsOldestInsertedFirst(t *testing.T) {
	s := New(3, time.Minute)

	for i := range 3 {
		s.Put(KindMetadata, fmt.Sprintf("url-%d", i), i)
	}
	// Inserting a 4th key must evict url-0, the earliest-inserted entry.
	s.Put(KindMetadata, "url-3", 3)

	if _, ok := s.Get(KindMetadata, "url-0"); ok {
		t.Error("url-0 should have been evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, ok := s.Get(KindMetadata, fmt.Sprintf("url-%d", i)); !ok {
			t.Errorf("url-%d should still be cached", i)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestStore_ReinsertRefreshesInsertionOrder(t *testing.T) {
	s := New(2, time.Minute)

	s.Put(KindMetadata, "url-a", "a")
	s.Put(KindMetadata, "url-b", "b")
	// Re-inserting url-a moves it to the back of the eviction order.
	s.Put(KindMetadata, "url-a", "a2")
	s.Put(KindMetadata, "url-c", "c")

	if _, ok := s.Get(KindMetadata, "url-b"); ok {
		t.Error("url-b should have been evicted (oldest insertion)")
	}
	if v, ok := s.Get(KindMetadata, "url-a"); !ok || v != "a2" {
		t.Errorf("url-a = (%v, %v), want (a2, true)", v, ok)
	}
}

func TestStore_EntriesExpireLazily(t *testing.T) {
	s := New(10, 30*time.Millisecond)
	url := "https://www.tiktok.com/@a/video/1"

	s.Put(KindMetadata, url, "meta")

	if _, ok := s.Get(KindMetadata, url); !ok {
		t.Fatal("entry should be fresh immediately after insert")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := s.Get(KindMetadata, url); ok {
		t.Error("entry should be expired after TTL")
	}
	if s.Len() != 0 {
		t.Errorf("expired entry should be dropped on lookup, Len() = %d", s.Len())
	}
}
