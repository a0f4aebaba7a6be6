package manager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inferd/internal/common/fsutil"
	"inferd/internal/session"
	"inferd/pkg/types"
)

// Load resolves the requested model and loads it into the session, replacing
// whatever was loaded before. Outstanding work is drained first.
func (m *Manager) Load(ctx context.Context, req types.LoadRequest) (types.LoadResponse, error) {
	mdl, err := m.resolveLoadTarget(req)
	if err != nil {
		return types.LoadResponse{}, err
	}
	release, err := m.acquireExclusive(ctx)
	if err != nil {
		return types.LoadResponse{}, err
	}
	defer release()
	return m.loadLocked(mdl, req)
}

// resolveLoadTarget maps a LoadRequest to a concrete model entry. Explicit
// paths bypass the registry after a file preflight.
func (m *Manager) resolveLoadTarget(req types.LoadRequest) (types.Model, error) {
	if strings.TrimSpace(req.Path) != "" {
		p, err := fsutil.ExpandHome(req.Path)
		if err != nil {
			return types.Model{}, ErrInvalidRequest(err.Error())
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return types.Model{}, ErrInvalidRequest(err.Error())
		}
		fi, err := os.Stat(abs)
		if err != nil {
			return types.Model{}, modelNotFoundError{id: abs}
		}
		if fi.IsDir() {
			return types.Model{}, ErrInvalidRequest("model path is a directory: " + abs)
		}
		name := filepath.Base(abs)
		return types.Model{ID: name, Name: name, Path: abs, SizeMB: fi.Size() / (1 << 20)}, nil
	}
	if req.Model != "" {
		if mdl, ok := m.getModelByID(req.Model); ok {
			return mdl, nil
		}
		return types.Model{}, modelNotFoundError{id: req.Model}
	}
	return types.Model{}, ErrInvalidRequest("either model or path is required")
}

// getModelByID finds a model in the registry by id.
func (m *Manager) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

// ensureLoaded makes sure mdl is the loaded model, loading it on demand.
// The caller must hold the session slot.
func (m *Manager) ensureLoaded(mdl types.Model) error {
	m.mu.RLock()
	cur := m.current
	st := m.state
	m.mu.RUnlock()
	if cur != nil && cur.Path == mdl.Path && m.sess.Loaded() {
		return nil
	}
	// A drain started after this request was admitted; do not begin a fresh
	// load under it.
	if st == StateDraining {
		return tooBusyError{reason: "draining"}
	}
	_, err := m.loadLocked(mdl, types.LoadRequest{})
	return err
}

// loadLocked closes any current session and loads mdl with the request
// parameters, falling back to configured and package defaults. The caller
// must hold the session slot.
func (m *Manager) loadLocked(mdl types.Model, req types.LoadRequest) (types.LoadResponse, error) {
	m.mu.Lock()
	m.state = StateLoading
	m.lastErr = ""
	m.mu.Unlock()

	if m.sess.Loaded() {
		m.sess.Close()
		if m.cache != nil {
			m.cache.Purge()
		}
		m.mu.Lock()
		m.current = nil
		m.memoryBytes = 0
		m.unloadsTotal++
		m.mu.Unlock()
		engineUnloadsTotal.Inc()
	}

	params := session.LoadParams{
		Path:        mdl.Path,
		ContextSize: req.ContextSize,
		Threads:     req.Threads,
		GPULayers:   req.GPULayers,
		BatchSize:   req.BatchSize,
	}
	if params.ContextSize == 0 {
		params.ContextSize = m.engDefaults.contextSize
	}
	if params.Threads == 0 {
		params.Threads = m.engDefaults.threads
	}
	if params.GPULayers == 0 {
		params.GPULayers = m.engDefaults.gpuLayers
	}
	if params.BatchSize == 0 {
		params.BatchSize = m.engDefaults.batchSize
	}

	m.publisher.Publish(Event{Name: "load_start", ModelID: mdl.ID, Fields: map[string]any{"path": mdl.Path}})
	if err := m.sess.Load(params); err != nil {
		m.mu.Lock()
		m.state = StateIdle
		m.lastErr = err.Error()
		m.mu.Unlock()
		engineLoadFailuresTotal.Inc()
		m.publisher.Publish(Event{Name: "load_failed", ModelID: mdl.ID, Fields: map[string]any{"error": err.Error()}})
		return types.LoadResponse{}, err
	}

	eff := m.sess.Params()
	took := m.sess.LoadTime()

	m.mu.Lock()
	cur := mdl
	m.current = &cur
	m.state = StateReady
	m.ctxSize = eff.ContextSize
	m.threads = eff.Threads
	m.gpuLayers = eff.GPULayers
	m.loadTimeMs = took.Milliseconds()
	m.memoryBytes = m.sess.MemoryUsage()
	m.loadsTotal++
	m.lastUsed = time.Now()
	m.mu.Unlock()

	engineLoadsTotal.Inc()
	engineLoadDuration.Observe(took.Seconds())
	m.publisher.Publish(Event{Name: "load_done", ModelID: mdl.ID, Fields: map[string]any{
		"dur_ms":   took.Milliseconds(),
		"ctx_size": eff.ContextSize,
	}})

	return types.LoadResponse{
		Model:       mdl.ID,
		Path:        mdl.Path,
		ContextSize: eff.ContextSize,
		LoadTimeMs:  took.Milliseconds(),
	}, nil
}
