package manager

import (
	"context"
	"reflect"
	"testing"
	"time"

	"inferd/internal/engine"
	"inferd/internal/engine/enginetest"
	"inferd/pkg/types"
)

func TestLoadUnloadEventOrder(t *testing.T) {
	pub := NewMemoryPublisher()
	m := newTestManager(t, enginetest.New(), func(cfg *ManagerConfig) {
		cfg.Publisher = pub
	})

	if _, err := m.Load(context.Background(), types.LoadRequest{Model: "a.gguf"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.Unload(context.Background()); err != nil {
		t.Fatalf("unload: %v", err)
	}

	want := []string{"load_start", "load_done", "unload_start", "unload_done"}
	if got := pub.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("event order = %v, want %v", got, want)
	}
	for _, ev := range pub.Events() {
		if ev.ModelID != "a.gguf" {
			t.Fatalf("event %s has model %q", ev.Name, ev.ModelID)
		}
	}
}

func TestGenerateEventsIncludeStats(t *testing.T) {
	pub := NewMemoryPublisher()
	m := newTestManager(t, enginetest.New("Hello", " world"), func(cfg *ManagerConfig) {
		cfg.Publisher = pub
	})

	generate(t, m, types.GenerateRequest{Prompt: "hi"})

	want := []string{"load_start", "load_done", "generate_done"}
	if got := pub.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("event order = %v, want %v", got, want)
	}
	events := pub.Events()
	done := events[len(events)-1]
	if done.Fields["tokens"] != 2 {
		t.Fatalf("tokens field = %v", done.Fields["tokens"])
	}
	if done.Fields["finish_reason"] != "stop" {
		t.Fatalf("finish_reason field = %v", done.Fields["finish_reason"])
	}
}

func TestLoadFailurePublishesEvent(t *testing.T) {
	pub := NewMemoryPublisher()
	eng := enginetest.New()
	eng.FailLoad = engine.ErrBackendUnavailable("no backend")
	m := newTestManager(t, eng, func(cfg *ManagerConfig) {
		cfg.Publisher = pub
	})

	if _, err := m.Load(context.Background(), types.LoadRequest{Model: "a.gguf"}); err == nil {
		t.Fatal("expected an error")
	}
	want := []string{"load_start", "load_failed"}
	if got := pub.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("event order = %v, want %v", got, want)
	}
	events := pub.Events()
	if events[1].Fields["error"] == "" {
		t.Fatal("load_failed event has no error field")
	}
}

func TestCacheHitPublishesEvent(t *testing.T) {
	pub := NewMemoryPublisher()
	m := newTestManager(t, enginetest.New("x"), func(cfg *ManagerConfig) {
		cfg.Publisher = pub
		cfg.CacheTTL = time.Minute
	})
	req := types.GenerateRequest{Prompt: "hi", Seed: 7}

	generate(t, m, req)
	generate(t, m, req)

	names := pub.Names()
	if names[len(names)-1] != "cache_hit" {
		t.Fatalf("last event = %v", names)
	}
}
