package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// TestDegradedStoreFallsBackToMemory manager 为 nil 时退化为会话内内存存储
func TestDegradedStoreFallsBackToMemory(t *testing.T) {
	store := NewGdataStore(nil, "prefs")

	if store.Available() {
		t.Error("degraded store reports Available = true")
	}
	if got := store.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("Get(missing) = %q, want default", got)
	}

	if err := store.Set("overlay", "enabled: true"); err != nil {
		t.Fatalf("Set failed in degraded mode: %v", err)
	}
	if got := store.Get("overlay", ""); got != "enabled: true" {
		t.Errorf("Get after Set = %q, want %q", got, "enabled: true")
	}

	if err := store.Remove("overlay"); err != nil {
		t.Fatalf("Remove failed in degraded mode: %v", err)
	}
	if got := store.Get("overlay", "gone"); got != "gone" {
		t.Errorf("Get after Remove = %q, want default", got)
	}
	// 删除不存在的键是空操作
	if err := store.Remove("never-existed"); err != nil {
		t.Errorf("Remove of missing key errored: %v", err)
	}
}

// TestGdataStoreRoundTrip 真实 gdata 后端的读写删往返
//
// 在无法打开本地存储的环境（CI 沙箱等）中跳过。
func TestGdataStoreRoundTrip(t *testing.T) {
	manager, err := gdata.Open(gdata.Config{AppName: "snowfx-test"})
	if err != nil {
		t.Skipf("gdata storage unavailable: %v", err)
	}

	store := NewGdataStore(manager, "prefs-test")
	t.Cleanup(func() {
		if rmErr := store.Remove("roundtrip"); rmErr != nil {
			t.Logf("cleanup: failed to remove test key: %v", rmErr)
		}
	})

	if !store.Available() {
		t.Fatal("store with a live manager reports Available = false")
	}
	if err := store.Set("roundtrip", "tier: heavy"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := store.Get("roundtrip", ""); got != "tier: heavy" {
		t.Errorf("Get = %q, want %q", got, "tier: heavy")
	}
	if err := store.Remove("roundtrip"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := store.Get("roundtrip", "absent"); got != "absent" {
		t.Errorf("Get after Remove = %q, want default", got)
	}
}
