package manager

import (
	"context"
)

// Unload initiates a graceful drain and closes the session.
// - Flips the manager to draining so new requests are rejected.
// - Waits up to the drain timeout for in-flight and queued work to finish.
// - Closes the session and resets state. A no-op when nothing is loaded.
func (m *Manager) Unload(ctx context.Context) error {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()
	if cur == nil {
		return nil
	}

	m.publisher.Publish(Event{Name: "unload_start", ModelID: cur.ID, Fields: map[string]any{}})
	release, err := m.acquireExclusive(ctx)
	if err != nil {
		m.publisher.Publish(Event{Name: "unload_timeout", ModelID: cur.ID, Fields: map[string]any{"error": err.Error()}})
		return err
	}
	defer release()

	wasLoaded := m.sess.Loaded()
	if wasLoaded {
		m.sess.Close()
	}
	if m.cache != nil {
		m.cache.Purge()
	}

	m.mu.Lock()
	m.current = nil
	m.state = StateIdle
	m.lastErr = ""
	m.ctxSize, m.threads, m.gpuLayers = 0, 0, 0
	m.loadTimeMs = 0
	m.memoryBytes = 0
	if wasLoaded {
		m.unloadsTotal++
	}
	m.mu.Unlock()

	if wasLoaded {
		engineUnloadsTotal.Inc()
	}
	m.publisher.Publish(Event{Name: "unload_done", ModelID: cur.ID, Fields: map[string]any{}})
	m.log.Info().Str("model", cur.ID).Msg("model unloaded")
	return nil
}
