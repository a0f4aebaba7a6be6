package manager

import (
	"context"
	"testing"
	"time"

	"inferd/internal/engine/enginetest"
	"inferd/pkg/types"
)

func TestNewAppliesDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Engine: enginetest.New()})
	defer m.Close()
	if m.maxQueueDepth != defaultMaxQueueDepth {
		t.Fatalf("maxQueueDepth = %d, want %d", m.maxQueueDepth, defaultMaxQueueDepth)
	}
	if m.maxWait != defaultMaxWait {
		t.Fatalf("maxWait = %v, want %v", m.maxWait, defaultMaxWait)
	}
	if m.drainTimeout != defaultDrainTimeout {
		t.Fatalf("drainTimeout = %v, want %v", m.drainTimeout, defaultDrainTimeout)
	}
	if cap(m.queueCh) != defaultMaxQueueDepth || cap(m.genCh) != 1 {
		t.Fatalf("channel caps = %d/%d", cap(m.queueCh), cap(m.genCh))
	}
	if m.sampling.maxTokens != 256 || m.sampling.topK != 40 {
		t.Fatalf("sampling defaults not applied: %+v", m.sampling)
	}
	if m.cache != nil {
		t.Fatal("cache enabled without a TTL")
	}
}

func TestNewHonorsConfig(t *testing.T) {
	m := NewWithConfig(ManagerConfig{
		Engine:        enginetest.New(),
		MaxQueueDepth: 3,
		MaxWait:       time.Second,
		DrainTimeout:  2 * time.Second,
		MaxTokens:     64,
		Temperature:   0.5,
		TopK:          10,
		CacheTTL:      time.Minute,
	})
	defer m.Close()
	if m.maxQueueDepth != 3 || m.maxWait != time.Second || m.drainTimeout != 2*time.Second {
		t.Fatalf("unexpected admission config: %d %v %v", m.maxQueueDepth, m.maxWait, m.drainTimeout)
	}
	if m.sampling.maxTokens != 64 || m.sampling.temperature != 0.5 || m.sampling.topK != 10 {
		t.Fatalf("unexpected sampling: %+v", m.sampling)
	}
	if m.sampling.topP != 0.9 {
		t.Fatalf("unset topP should fall back to default, got %v", m.sampling.topP)
	}
	if m.cache == nil {
		t.Fatal("cache not constructed despite TTL")
	}
}

func TestListModelsReturnsCopy(t *testing.T) {
	m := newTestManager(t, enginetest.New(), nil)
	models := m.ListModels()
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	models[0].ID = "mutated"
	if m.ListModels()[0].ID != "a.gguf" {
		t.Fatal("ListModels exposed internal slice")
	}
}

func TestReadyFollowsLifecycle(t *testing.T) {
	eng := enginetest.New("x")
	m := newTestManager(t, eng, nil)
	if m.Ready() {
		t.Fatal("ready before any load")
	}
	if _, err := m.Load(context.Background(), types.LoadRequest{Model: "a.gguf"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !m.Ready() {
		t.Fatal("not ready after load")
	}
	if err := m.Unload(context.Background()); err != nil {
		t.Fatalf("unload: %v", err)
	}
	if m.Ready() {
		t.Fatal("ready after unload")
	}
}

func TestCloseIsIdempotentAndUnloads(t *testing.T) {
	eng := enginetest.New()
	m := newTestManager(t, eng, nil)
	if _, err := m.Load(context.Background(), types.LoadRequest{Model: "a.gguf"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if eng.LiveModels() != 0 || eng.LiveContexts() != 0 {
		t.Fatalf("leaked handles after close: %d models, %d contexts", eng.LiveModels(), eng.LiveContexts())
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
