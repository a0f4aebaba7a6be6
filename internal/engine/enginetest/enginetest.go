// Package enginetest provides a deterministic in-memory engine.Engine for
// tests. It tokenizes prompts by whitespace, emits a scripted sequence of
// pieces, and counts live handles so resource-lifecycle tests can assert
// that everything acquired was released.
package enginetest

import (
	"strings"
	"sync"
	"time"

	"inferd/internal/engine"
)

// Token ids used by the fake vocabulary. They follow the common llama
// convention of BOS=1 and EOS=2.
const (
	bosToken engine.Token = 1
	eogToken engine.Token = 2

	// scriptBase is the id of the first scripted token. Prompt words get ids
	// from promptBase so the two ranges never collide.
	scriptBase engine.Token = 100
	promptBase engine.Token = 1000
)

// Engine is a scripted fake. Configure the exported fields before use; they
// must not be changed once a session is running.
type Engine struct {
	// Script holds the pieces emitted one per sample, in order. When the
	// script is exhausted the sampler yields an end-of-generation token.
	Script []string

	// FailLoad, when set, is returned by LoadModel.
	FailLoad error
	// FailContext, when set, is returned by NewContext.
	FailContext error
	// FailTokenize makes Tokenize fail regardless of input.
	FailTokenize bool
	// FailDecodeAt makes the n-th Decode call fail (1-based; the prompt
	// prefill is call 1). 0 disables the injection.
	FailDecodeAt int

	// DecodeDelay adds latency to every Decode call so concurrency tests can
	// hold the generation slot for a known time.
	DecodeDelay time.Duration

	// StateBytes is what Context.StateSize reports. Defaults to 1 MiB.
	StateBytes uint64

	mu           sync.Mutex
	initCalls    int
	freeCalls    int
	decodeCalls  int
	sampleCalls  int
	batchSizes   []int
	liveModels   int
	liveContexts int
	liveBatches  int
	liveSamplers int

	lastModelParams   engine.ModelParams
	lastContextParams engine.ContextParams
	lastSamplerParams engine.SamplerParams
	loadedPath        string
}

// New returns a fake engine that will emit the given pieces in order.
func New(script ...string) *Engine {
	return &Engine{Script: script, StateBytes: 1 << 20}
}

func (e *Engine) Init() {
	e.mu.Lock()
	e.initCalls++
	e.mu.Unlock()
}

func (e *Engine) Free() {
	e.mu.Lock()
	e.freeCalls++
	e.mu.Unlock()
}

func (e *Engine) LoadModel(path string, params engine.ModelParams) (engine.Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailLoad != nil {
		return nil, e.FailLoad
	}
	e.liveModels++
	e.loadedPath = path
	e.lastModelParams = params
	return &fakeModel{eng: e}, nil
}

// InitCalls reports how many times Init ran.
func (e *Engine) InitCalls() int { e.mu.Lock(); defer e.mu.Unlock(); return e.initCalls }

// FreeCalls reports how many times Free ran.
func (e *Engine) FreeCalls() int { e.mu.Lock(); defer e.mu.Unlock(); return e.freeCalls }

// DecodeCalls reports the total number of Decode invocations.
func (e *Engine) DecodeCalls() int { e.mu.Lock(); defer e.mu.Unlock(); return e.decodeCalls }

// SampleCalls reports the total number of Sample invocations.
func (e *Engine) SampleCalls() int { e.mu.Lock(); defer e.mu.Unlock(); return e.sampleCalls }

// DecodedBatchSizes returns the token count of every decoded batch in order.
func (e *Engine) DecodedBatchSizes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int, len(e.batchSizes))
	copy(out, e.batchSizes)
	return out
}

// LiveModels reports models loaded and not yet closed.
func (e *Engine) LiveModels() int { e.mu.Lock(); defer e.mu.Unlock(); return e.liveModels }

// LiveContexts reports contexts created and not yet closed.
func (e *Engine) LiveContexts() int { e.mu.Lock(); defer e.mu.Unlock(); return e.liveContexts }

// LiveBatches reports batches allocated and not yet closed.
func (e *Engine) LiveBatches() int { e.mu.Lock(); defer e.mu.Unlock(); return e.liveBatches }

// LiveSamplers reports samplers built and not yet closed.
func (e *Engine) LiveSamplers() int { e.mu.Lock(); defer e.mu.Unlock(); return e.liveSamplers }

// LoadedPath reports the path passed to the most recent LoadModel.
func (e *Engine) LoadedPath() string { e.mu.Lock(); defer e.mu.Unlock(); return e.loadedPath }

// LastModelParams reports the params of the most recent LoadModel.
func (e *Engine) LastModelParams() engine.ModelParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastModelParams
}

// LastContextParams reports the params of the most recent NewContext.
func (e *Engine) LastContextParams() engine.ContextParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastContextParams
}

// LastSamplerParams reports the params of the most recent NewSampler.
func (e *Engine) LastSamplerParams() engine.SamplerParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSamplerParams
}

// PromptTokens returns the token count Tokenize would produce for text with
// a BOS prepended, so tests can state expectations without duplicating the
// fake tokenizer rules.
func (e *Engine) PromptTokens(text string) int { return len(strings.Fields(text)) + 1 }

type fakeModel struct {
	eng *Engine
}

func (m *fakeModel) NewContext(params engine.ContextParams) (engine.Context, error) {
	m.eng.mu.Lock()
	defer m.eng.mu.Unlock()
	if m.eng.FailContext != nil {
		return nil, m.eng.FailContext
	}
	m.eng.liveContexts++
	m.eng.lastContextParams = params
	return &fakeContext{eng: m.eng}, nil
}

func (m *fakeModel) Tokenize(text string, maxTokens int, addBOS, special bool) ([]engine.Token, error) {
	if m.eng.FailTokenize {
		return nil, engine.ErrTokenizeFailed(-1)
	}
	words := strings.Fields(text)
	n := len(words)
	if addBOS {
		n++
	}
	if n > maxTokens {
		return nil, engine.ErrTokenizeFailed(int32(-n))
	}
	toks := make([]engine.Token, 0, n)
	if addBOS {
		toks = append(toks, bosToken)
	}
	for i := range words {
		toks = append(toks, promptBase+engine.Token(i))
	}
	return toks, nil
}

func (m *fakeModel) Piece(t engine.Token) string {
	if t >= scriptBase && int(t-scriptBase) < len(m.eng.Script) {
		return m.eng.Script[t-scriptBase]
	}
	return ""
}

func (m *fakeModel) IsEOG(t engine.Token) bool { return t == eogToken }

func (m *fakeModel) Close() {
	m.eng.mu.Lock()
	m.eng.liveModels--
	m.eng.mu.Unlock()
}

type fakeContext struct {
	eng *Engine
	// next indexes the script entry the sampler will emit.
	next int
}

func (c *fakeContext) ClearCache() { c.next = 0 }

func (c *fakeContext) Decode(b engine.Batch) error {
	if d := c.eng.DecodeDelay; d > 0 {
		time.Sleep(d)
	}
	c.eng.mu.Lock()
	defer c.eng.mu.Unlock()
	c.eng.decodeCalls++
	c.eng.batchSizes = append(c.eng.batchSizes, b.Len())
	if c.eng.FailDecodeAt > 0 && c.eng.decodeCalls == c.eng.FailDecodeAt {
		return engine.ErrDecodeFailed(1)
	}
	return nil
}

func (c *fakeContext) NewBatch(capacity int) engine.Batch {
	c.eng.mu.Lock()
	c.eng.liveBatches++
	c.eng.mu.Unlock()
	return &fakeBatch{eng: c.eng}
}

func (c *fakeContext) NewSampler(params engine.SamplerParams) engine.Sampler {
	c.eng.mu.Lock()
	c.eng.liveSamplers++
	c.eng.lastSamplerParams = params
	c.eng.mu.Unlock()
	return &fakeSampler{ctx: c}
}

func (c *fakeContext) StateSize() uint64 {
	if c.eng.StateBytes == 0 {
		return 1 << 20
	}
	return c.eng.StateBytes
}

func (c *fakeContext) Close() {
	c.eng.mu.Lock()
	c.eng.liveContexts--
	c.eng.mu.Unlock()
}

type fakeBatch struct {
	eng    *Engine
	tokens []engine.Token
}

func (b *fakeBatch) Add(t engine.Token, pos int32, logits bool) {
	b.tokens = append(b.tokens, t)
}

func (b *fakeBatch) Clear() { b.tokens = b.tokens[:0] }

func (b *fakeBatch) Len() int { return len(b.tokens) }

func (b *fakeBatch) Close() {
	b.eng.mu.Lock()
	b.eng.liveBatches--
	b.eng.mu.Unlock()
}

type fakeSampler struct {
	ctx *fakeContext
}

func (s *fakeSampler) Sample(idx int32) engine.Token {
	s.ctx.eng.mu.Lock()
	s.ctx.eng.sampleCalls++
	s.ctx.eng.mu.Unlock()
	if s.ctx.next >= len(s.ctx.eng.Script) {
		return eogToken
	}
	t := scriptBase + engine.Token(s.ctx.next)
	s.ctx.next++
	return t
}

func (s *fakeSampler) Close() {
	s.ctx.eng.mu.Lock()
	s.ctx.eng.liveSamplers--
	s.ctx.eng.mu.Unlock()
}
