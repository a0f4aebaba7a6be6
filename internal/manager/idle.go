package manager

import (
	"context"
	"time"
)

// idleLoop unloads the session after idleTTL of inactivity. Started by
// NewWithConfig when an idle TTL is configured; stopped by Close.
func (m *Manager) idleLoop() {
	every := m.idleTTL / 4
	if every < 10*time.Millisecond {
		every = 10 * time.Millisecond
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.RLock()
			idle := m.state == StateReady &&
				len(m.genCh) == 0 && len(m.queueCh) == 0 &&
				!m.lastUsed.IsZero() && time.Since(m.lastUsed) >= m.idleTTL
			var id string
			if m.current != nil {
				id = m.current.ID
			}
			m.mu.RUnlock()
			if !idle {
				continue
			}
			m.log.Info().Str("model", id).Dur("idle_ttl", m.idleTTL).Msg("idle timeout, unloading model")
			m.publisher.Publish(Event{Name: "idle_unload", ModelID: id, Fields: map[string]any{}})
			if err := m.Unload(context.Background()); err != nil {
				m.log.Warn().Err(err).Str("model", id).Msg("idle unload failed")
			}
		}
	}
}
