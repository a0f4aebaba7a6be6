package manager

import (
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
	"inferd/internal/engine/llamacpp"
	"inferd/internal/gencache"
	"inferd/internal/session"
	"inferd/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultDrainTimeout  = 10 * time.Second
	defaultCacheCapacity = 128
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry     []types.Model
	DefaultModel string

	// Engine backs the session. Defaults to the llama.cpp backend (or its
	// refusing stub when the binary was built without the llama tag).
	Engine engine.Engine

	Logger    zerolog.Logger
	Publisher EventPublisher

	// Admission control.
	MaxQueueDepth int
	MaxWait       time.Duration
	DrainTimeout  time.Duration

	// IdleUnload closes the session after this much inactivity. 0 disables.
	IdleUnload time.Duration

	// Response cache for deterministic requests. CacheTTL 0 disables it.
	CacheTTL      time.Duration
	CacheCapacity int

	// Engine parameters applied when a load request leaves them unset.
	ContextSize int
	Threads     int
	GPULayers   int
	BatchSize   int

	// Sampling defaults applied when a generate request leaves them unset.
	MaxTokens     int
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
}

// engineDefaults are the configured fallbacks for load parameters. Zero
// fields fall through to the engine package defaults inside session.Load.
type engineDefaults struct {
	contextSize int
	threads     int
	gpuLayers   int
	batchSize   int
}

// sampling holds the resolved per-request defaults.
type sampling struct {
	maxTokens     int
	temperature   float32
	topP          float32
	topK          int32
	repeatPenalty float32
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	eng := cfg.Engine
	if eng == nil {
		eng = llamacpp.New()
	}
	pub := cfg.Publisher
	if pub == nil {
		pub = noopPublisher{}
	}

	m := &Manager{
		state:        StateIdle,
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		log:          cfg.Logger,
		publisher:    pub,
		sess:         session.New(eng, cfg.Logger),
		startTime:    time.Now(),
		stop:         make(chan struct{}),
	}

	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	m.queueCh = make(chan struct{}, m.maxQueueDepth)
	m.genCh = make(chan struct{}, 1)

	m.engDefaults = engineDefaults{
		contextSize: cfg.ContextSize,
		threads:     cfg.Threads,
		gpuLayers:   cfg.GPULayers,
		batchSize:   cfg.BatchSize,
	}
	m.sampling = sampling{
		maxTokens:     cfg.MaxTokens,
		temperature:   float32(cfg.Temperature),
		topP:          float32(cfg.TopP),
		topK:          int32(cfg.TopK),
		repeatPenalty: float32(cfg.RepeatPenalty),
	}
	if m.sampling.maxTokens <= 0 {
		m.sampling.maxTokens = session.DefaultMaxTokens
	}
	if m.sampling.temperature == 0 {
		m.sampling.temperature = session.DefaultTemperature
	}
	if m.sampling.topP == 0 {
		m.sampling.topP = session.DefaultTopP
	}
	if m.sampling.topK == 0 {
		m.sampling.topK = session.DefaultTopK
	}
	if m.sampling.repeatPenalty == 0 {
		m.sampling.repeatPenalty = session.DefaultRepeatPenalty
	}

	if cfg.CacheTTL > 0 {
		capacity := cfg.CacheCapacity
		if capacity <= 0 {
			capacity = defaultCacheCapacity
		}
		m.cache = gencache.New(cfg.CacheTTL, uint64(capacity))
	}

	m.idleTTL = cfg.IdleUnload
	if m.idleTTL > 0 {
		go m.idleLoop()
	}
	return m
}
