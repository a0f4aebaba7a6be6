package manager

import (
	"time"

	"inferd/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := m.state
	if state == StateReady && len(m.genCh) > 0 {
		state = StateGenerating
	}
	resp := types.StatusResponse{
		State:            string(state),
		LastError:        m.lastErr,
		Inflight:         len(m.genCh),
		MaxQueueDepth:    cap(m.queueCh),
		LoadsTotal:       m.loadsTotal,
		UnloadsTotal:     m.unloadsTotal,
		GenerationsTotal: m.generationsTotal,
		CacheHitsTotal:   m.cacheHitsTotal,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:   time.Now().Unix(),
	}
	// The in-flight request also holds a queue slot; report only waiters.
	if q := len(m.queueCh) - len(m.genCh); q > 0 {
		resp.QueueLen = q
	}
	if m.current != nil {
		cur := *m.current
		resp.Model = &cur
		resp.ContextSize = m.ctxSize
		resp.Threads = m.threads
		resp.GPULayers = m.gpuLayers
		resp.LoadTimeMs = m.loadTimeMs
		resp.MemoryBytes = m.memoryBytes
	}
	if m.lastStats != nil {
		last := *m.lastStats
		resp.Last = &last
	}
	return resp
}
