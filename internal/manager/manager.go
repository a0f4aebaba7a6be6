package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/gencache"
	"inferd/internal/session"
	"inferd/pkg/types"
)

// Manager owns the single inference session. All session access funnels
// through the generation slot (genCh); everything else lives behind mu.
type Manager struct {
	mu        sync.RWMutex
	state     State
	current   *types.Model
	lastErr   string
	lastStats *types.GenerationStats
	lastUsed  time.Time

	// Effective parameters of the live session, copied out at load time so
	// Status never has to touch the session itself.
	ctxSize     int
	threads     int
	gpuLayers   int
	loadTimeMs  int64
	memoryBytes uint64

	loadsTotal       uint64
	unloadsTotal     uint64
	generationsTotal uint64
	cacheHitsTotal   uint64

	registry     []types.Model
	defaultModel string

	sess      *session.Session
	cache     *gencache.Cache
	log       zerolog.Logger
	publisher EventPublisher

	// genCh is the exclusive session slot (capacity 1); queueCh bounds the
	// number of admitted requests including the in-flight one.
	genCh   chan struct{}
	queueCh chan struct{}

	maxQueueDepth int
	maxWait       time.Duration
	drainTimeout  time.Duration
	idleTTL       time.Duration

	engDefaults engineDefaults
	sampling    sampling

	startTime time.Time
	stop      chan struct{}
	closeOnce sync.Once
}

// New constructs a Manager with package defaults for everything but the
// registry and default model.
func New(reg []types.Model, defaultModel string) *Manager {
	return NewWithConfig(ManagerConfig{
		Registry:     reg,
		DefaultModel: defaultModel,
	})
}

// Ready reports whether a model is loaded and the manager accepts requests.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// ListModels returns the registry entries.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// Close stops the idle loop, drains and unloads the session, and releases
// the response cache. Safe to call more than once.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stop)
		err = m.Unload(context.Background())
		if m.cache != nil {
			m.cache.Close()
		}
	})
	return err
}
