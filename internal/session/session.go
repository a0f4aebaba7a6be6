package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"inferd/internal/engine"
)

// LoadParams configures a model load. Zero numeric fields fall back to the
// engine defaults.
type LoadParams struct {
	Path        string
	ContextSize int
	Threads     int
	GPULayers   int
	BatchSize   int
}

func (p LoadParams) withDefaults() LoadParams {
	if p.ContextSize == 0 {
		p.ContextSize = engine.DefaultContextSize
	}
	if p.Threads == 0 {
		p.Threads = engine.DefaultThreads
	}
	if p.BatchSize == 0 {
		p.BatchSize = engine.DefaultBatchSize
	}
	return p
}

func (p LoadParams) validate() error {
	if strings.TrimSpace(p.Path) == "" {
		return ErrInvalidParams("model path is empty")
	}
	if p.ContextSize < 1 {
		return ErrInvalidParams(fmt.Sprintf("context size %d", p.ContextSize))
	}
	if p.Threads < 1 {
		return ErrInvalidParams(fmt.Sprintf("threads %d", p.Threads))
	}
	if p.GPULayers < 0 {
		return ErrInvalidParams(fmt.Sprintf("gpu layers %d", p.GPULayers))
	}
	if p.BatchSize < 1 {
		return ErrInvalidParams(fmt.Sprintf("batch size %d", p.BatchSize))
	}
	return nil
}

// Session owns one loaded model and its inference context, and sequences
// generations over them. A Session is single-caller: it holds no locks, and
// exactly one goroutine may use it at a time. Serialization across callers
// belongs to the layer above (see the manager package).
type Session struct {
	eng engine.Engine
	log zerolog.Logger

	model engine.Model
	ctx   engine.Context

	params   LoadParams
	loadTime time.Duration
	stats    Stats
}

// New returns an empty session over the given engine.
func New(eng engine.Engine, log zerolog.Logger) *Session {
	return &Session{eng: eng, log: log}
}

// Load brings up the model at params.Path and creates its inference context.
// Loading over a live session is rejected; Close first to replace. When
// context creation fails the just-loaded model is released before returning,
// so a failed Load never leaks handles.
func (s *Session) Load(params LoadParams) error {
	if s.model != nil {
		return ErrAlreadyLoaded(s.params.Path)
	}
	params = params.withDefaults()
	if err := params.validate(); err != nil {
		return err
	}

	start := time.Now()
	s.eng.Init()

	model, err := s.eng.LoadModel(params.Path, engine.ModelParams{GPULayers: params.GPULayers})
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	ctx, err := model.NewContext(engine.ContextParams{
		ContextSize: params.ContextSize,
		Threads:     params.Threads,
		BatchSize:   params.BatchSize,
	})
	if err != nil {
		model.Close()
		return fmt.Errorf("create context: %w", err)
	}

	s.model = model
	s.ctx = ctx
	s.params = params
	s.loadTime = time.Since(start)
	s.log.Info().
		Str("path", params.Path).
		Int("ctx_size", params.ContextSize).
		Int("threads", params.Threads).
		Int("gpu_layers", params.GPULayers).
		Dur("took", s.loadTime).
		Msg("model loaded")
	return nil
}

// Close releases the context, then the model, then the backend. Calling it
// on an empty or already-closed session is a no-op.
func (s *Session) Close() {
	if s.ctx != nil {
		s.ctx.Close()
		s.ctx = nil
	}
	if s.model != nil {
		s.model.Close()
		s.model = nil
		s.log.Info().Str("path", s.params.Path).Msg("model unloaded")
	}
	s.eng.Free()
}

// Loaded reports whether the session has a live model and context.
func (s *Session) Loaded() bool { return s.model != nil && s.ctx != nil }

// ModelPath returns the path of the loaded model, or "".
func (s *Session) ModelPath() string {
	if s.model == nil {
		return ""
	}
	return s.params.Path
}

// Params returns the effective load parameters of the live session.
func (s *Session) Params() LoadParams {
	if s.model == nil {
		return LoadParams{}
	}
	return s.params
}

// LoadTime reports how long the last successful Load took.
func (s *Session) LoadTime() time.Duration { return s.loadTime }

// Stats returns the stats of the most recent generation. It is the zero
// value before the first Generate; failed calls that never reached the
// decode phase leave it untouched.
func (s *Session) Stats() Stats { return s.stats }

// MemoryUsage estimates the engine state footprint in bytes; 0 when no
// context is live.
func (s *Session) MemoryUsage() uint64 {
	if s.ctx == nil {
		return 0
	}
	return s.ctx.StateSize()
}
