package manager

import (
	"context"
	"testing"
	"time"

	"inferd/internal/engine/enginetest"
	"inferd/pkg/types"
)

func withCache(cfg *ManagerConfig) {
	cfg.CacheTTL = time.Minute
}

func TestCacheServesRepeatedDeterministicRequest(t *testing.T) {
	eng := enginetest.New("Hello", " world")
	m := newTestManager(t, eng, withCache)
	req := types.GenerateRequest{Prompt: "Say hi", Seed: 7}

	first := lastLine(t, generate(t, m, req))
	if _, ok := first["cached"]; ok {
		t.Fatal("first response marked cached")
	}
	if eng.DecodeCalls() != 3 {
		t.Fatalf("decode calls after first run = %d", eng.DecodeCalls())
	}

	second := lastLine(t, generate(t, m, req))
	if second["cached"] != true {
		t.Fatalf("repeat not served from cache: %v", second)
	}
	if second["content"] != first["content"] {
		t.Fatalf("cached content %v != %v", second["content"], first["content"])
	}
	if eng.DecodeCalls() != 3 {
		t.Fatalf("cache hit touched the engine: %d decode calls", eng.DecodeCalls())
	}
	st := m.Status()
	if st.CacheHitsTotal != 1 || st.GenerationsTotal != 1 {
		t.Fatalf("cache_hits/generations = %d/%d", st.CacheHitsTotal, st.GenerationsTotal)
	}
}

func TestCacheStreamedHitEmitsSingleFragment(t *testing.T) {
	m := newTestManager(t, enginetest.New("Hello", " world"), withCache)
	req := types.GenerateRequest{Prompt: "Say hi", Seed: 7}

	generate(t, m, req)
	req.Stream = true
	lines := generate(t, m, req)
	if len(lines) != 2 {
		t.Fatalf("expected fragment + done, got %d lines: %v", len(lines), lines)
	}
	if lines[0]["fragment"] != "Hello world" {
		t.Fatalf("fragment = %v", lines[0]["fragment"])
	}
	if done := lastLine(t, lines); done["cached"] != true {
		t.Fatalf("done line not marked cached: %v", done)
	}
}

func TestCacheIgnoresRandomRequests(t *testing.T) {
	eng := enginetest.New("Hello", " world")
	m := newTestManager(t, eng, withCache)
	req := types.GenerateRequest{Prompt: "Say hi"}

	generate(t, m, req)
	generate(t, m, req)
	if eng.DecodeCalls() != 6 {
		t.Fatalf("decode calls = %d, want 6", eng.DecodeCalls())
	}
	if st := m.Status(); st.CacheHitsTotal != 0 || st.GenerationsTotal != 2 {
		t.Fatalf("cache_hits/generations = %d/%d", st.CacheHitsTotal, st.GenerationsTotal)
	}
}

func TestGreedyRequestsAreCacheable(t *testing.T) {
	eng := enginetest.New("x")
	m := newTestManager(t, eng, withCache)
	req := types.GenerateRequest{Prompt: "hi", Temperature: -1}

	generate(t, m, req)
	done := lastLine(t, generate(t, m, req))
	if done["cached"] != true {
		t.Fatalf("greedy repeat not cached: %v", done)
	}
}

func TestCachePurgedOnUnload(t *testing.T) {
	eng := enginetest.New("Hello", " world")
	m := newTestManager(t, eng, withCache)
	req := types.GenerateRequest{Prompt: "Say hi", Seed: 7}

	generate(t, m, req)
	if err := m.Unload(context.Background()); err != nil {
		t.Fatalf("unload: %v", err)
	}
	done := lastLine(t, generate(t, m, req))
	if done["cached"] == true {
		t.Fatal("stale entry served after unload")
	}
	if eng.DecodeCalls() != 6 {
		t.Fatalf("decode calls = %d, want 6", eng.DecodeCalls())
	}
}

func TestCachePurgedOnModelSwitch(t *testing.T) {
	eng := enginetest.New("Hello", " world")
	m := newTestManager(t, eng, withCache)

	generate(t, m, types.GenerateRequest{Prompt: "Say hi", Seed: 7})
	generate(t, m, types.GenerateRequest{Prompt: "Say hi", Seed: 7, Model: "b.gguf"})
	done := lastLine(t, generate(t, m, types.GenerateRequest{Prompt: "Say hi", Seed: 7, Model: "a.gguf"}))
	if done["cached"] == true {
		t.Fatal("entry survived a model switch")
	}
	if eng.DecodeCalls() != 9 {
		t.Fatalf("decode calls = %d, want 9", eng.DecodeCalls())
	}
}

func TestCacheSkipsErrorResults(t *testing.T) {
	eng := enginetest.New("Hello", " world")
	eng.FailDecodeAt = 3
	m := newTestManager(t, eng, withCache)
	req := types.GenerateRequest{Prompt: "Say hi", Seed: 7}

	first := lastLine(t, generate(t, m, req))
	if first["finish_reason"] != "error" {
		t.Fatalf("finish_reason = %v", first["finish_reason"])
	}

	second := lastLine(t, generate(t, m, req))
	if second["cached"] == true {
		t.Fatal("error result was cached")
	}
	if second["finish_reason"] != "stop" {
		t.Fatalf("retry finish_reason = %v", second["finish_reason"])
	}
}
