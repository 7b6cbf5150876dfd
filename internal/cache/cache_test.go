package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	key := BuildKey("anthropic", "claude-sonnet-4", "review this diff")
	response := `{"overallScore": 7.5, "summary": "Looks reasonable."}`

	// Miss before put
	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss before put")
	}

	if err := c.Put(key, Entry{
		Provider:   "anthropic",
		Model:      "claude-sonnet-4",
		Response:   response,
		TokensUsed: 420,
	}); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Expected cache hit after put")
	}
	if got.Response != response {
		t.Errorf("Response = %q, want %q", got.Response, response)
	}
	if got.Provider != "anthropic" || got.Model != "claude-sonnet-4" {
		t.Errorf("Provider/Model = %q/%q, want anthropic/claude-sonnet-4", got.Provider, got.Model)
	}
	if got.TokensUsed != 420 {
		t.Errorf("TokensUsed = %d, want 420", got.TokensUsed)
	}
	if got.Key != HashKey(key) {
		t.Error("Entry key should be the hashed lookup key")
	}
	if got.CreatedAt.IsZero() || got.TTLSeconds != 86400 {
		t.Errorf("Entry not stamped: CreatedAt=%v TTLSeconds=%d", got.CreatedAt, got.TTLSeconds)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 1) // 1 second TTL
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	key := "expire-test"
	if err := c.Put(key, Entry{Provider: "ollama", Response: "data"}); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	// Should hit immediately
	if _, ok := c.Get(key); !ok {
		t.Error("Expected cache hit before expiration")
	}

	// Wait for expiration
	time.Sleep(1100 * time.Millisecond)

	// Should miss after TTL
	if _, ok := c.Get(key); ok {
		t.Error("Expected cache miss after TTL expiration")
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.Enabled() {
		t.Error("Cache should be disabled")
	}

	// Operations should be no-ops
	if err := c.Put("key", Entry{Response: "value"}); err != nil {
		t.Errorf("Put on disabled cache should not error: %v", err)
	}
	if _, ok := c.Get("key"); ok {
		t.Error("Get on disabled cache should always miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear on disabled cache should not error: %v", err)
	}
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Put some entries
	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if err := c.Put(key, Entry{Provider: "openai", Response: "data"}); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	// Verify entries exist
	entries, _ := os.ReadDir(dir)
	jsonCount := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			jsonCount++
		}
	}
	if jsonCount != 5 {
		t.Fatalf("Expected 5 cache entries, got %d", jsonCount)
	}

	// Clear
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	// Verify entries are gone
	entries, _ = os.ReadDir(dir)
	jsonCount = 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			jsonCount++
		}
	}
	if jsonCount != 0 {
		t.Errorf("Expected 0 cache entries after clear, got %d", jsonCount)
	}
}

func TestCache_GetStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Empty stats
	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Analyses != 0 {
		t.Errorf("Analyses = %d, want 0", stats.Analyses)
	}

	c.Put("key1", Entry{Provider: "anthropic", Model: "claude-sonnet-4", Response: "r1", TokensUsed: 300})
	c.Put("key2", Entry{Provider: "anthropic", Model: "claude-sonnet-4", Response: "r2", TokensUsed: 500})
	c.Put("key3", Entry{Provider: "ollama", Model: "llama3.2", Response: "r3", TokensUsed: 200})

	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Analyses != 3 {
		t.Errorf("Analyses = %d, want 3", stats.Analyses)
	}
	if stats.TokensSaved != 1000 {
		t.Errorf("TokensSaved = %d, want 1000", stats.TokensSaved)
	}
	if stats.ByProvider["anthropic"] != 2 || stats.ByProvider["ollama"] != 1 {
		t.Errorf("ByProvider = %v", stats.ByProvider)
	}
	if got := stats.Providers(); len(got) != 2 || got[0] != "anthropic" || got[1] != "ollama" {
		t.Errorf("Providers() = %v, want sorted [anthropic ollama]", got)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be > 0")
	}
	if stats.Dir != dir {
		t.Errorf("Dir = %q, want %q", stats.Dir, dir)
	}
}

func TestCache_GetStats_CountsExpired(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 1)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("old", Entry{Provider: "openai", Response: "stale"})

	time.Sleep(1100 * time.Millisecond)

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Analyses != 1 || stats.Expired != 1 {
		t.Errorf("Analyses=%d Expired=%d, want 1/1", stats.Analyses, stats.Expired)
	}
}

func TestHashKey(t *testing.T) {
	h1 := HashKey("test")
	h2 := HashKey("test")
	h3 := HashKey("other")

	if h1 != h2 {
		t.Error("Same input should produce same hash")
	}
	if h1 == h3 {
		t.Error("Different input should produce different hash")
	}
	if len(h1) != 64 { // SHA-256 hex = 64 chars
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestBuildKey(t *testing.T) {
	k1 := BuildKey("anthropic", "claude-3-5-sonnet", "diff content")
	k2 := BuildKey("anthropic", "claude-3-5-sonnet", "diff content")
	k3 := BuildKey("openai", "gpt-4o", "diff content")

	if k1 != k2 {
		t.Error("Same inputs should produce same cache key")
	}
	if k1 == k3 {
		t.Error("Different provider should produce different cache key")
	}
}
