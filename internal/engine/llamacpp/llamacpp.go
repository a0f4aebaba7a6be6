//go:build llama

// Package llamacpp implements engine.Engine with direct cgo bindings against
// the llama.cpp C API.
//
// Build with: go build -tags llama
// Requires a llama.cpp checkout built under third_party/llama.cpp (override
// the paths with CGO_CFLAGS/CGO_LDFLAGS for system-wide installs). Needs
// b4600 or later for the sampler chain API.
package llamacpp

/*
#cgo CFLAGS: -I${SRCDIR}/../../../third_party/llama.cpp/include -I${SRCDIR}/../../../third_party/llama.cpp/ggml/include
#cgo LDFLAGS: -L${SRCDIR}/../../../third_party/llama.cpp/build/bin -lllama -lggml -lggml-base -lggml-cpu -lm -lstdc++ -Wl,-rpath,${SRCDIR}/../../../third_party/llama.cpp/build/bin
#include <stdlib.h>
#include "llama.h"
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"inferd/internal/engine"
)

// Built reports whether native llama.cpp support is compiled into this binary.
const Built = true

// pieceBufSize bounds a single detokenized piece.
const pieceBufSize = 256

var (
	backendMu   sync.Mutex
	backendLive bool
)

type llamaEngine struct{}

// New returns the cgo-backed engine.
func New() engine.Engine { return llamaEngine{} }

func (llamaEngine) Init() {
	backendMu.Lock()
	defer backendMu.Unlock()
	if !backendLive {
		C.llama_backend_init()
		backendLive = true
	}
}

func (llamaEngine) Free() {
	backendMu.Lock()
	defer backendMu.Unlock()
	if backendLive {
		C.llama_backend_free()
		backendLive = false
	}
}

func (llamaEngine) LoadModel(path string, params engine.ModelParams) (engine.Model, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	mp := C.llama_model_default_params()
	mp.n_gpu_layers = C.int32_t(params.GPULayers)

	m := C.llama_load_model_from_file(cPath, mp)
	if m == nil {
		return nil, fmt.Errorf("load model %s: llama_load_model_from_file returned nil", path)
	}
	return &llamaModel{ptr: m}, nil
}

type llamaModel struct {
	ptr *C.struct_llama_model
}

func (m *llamaModel) NewContext(params engine.ContextParams) (engine.Context, error) {
	cp := C.llama_context_default_params()
	cp.n_ctx = C.uint32_t(params.ContextSize)
	cp.n_batch = C.uint32_t(params.BatchSize)
	cp.n_threads = C.int32_t(params.Threads)
	cp.n_threads_batch = C.int32_t(params.Threads)

	ctx := C.llama_new_context_with_model(m.ptr, cp)
	if ctx == nil {
		return nil, fmt.Errorf("create context (n_ctx=%d): llama_new_context_with_model returned nil", params.ContextSize)
	}
	return &llamaContext{ptr: ctx, model: m}, nil
}

func (m *llamaModel) Tokenize(text string, maxTokens int, addBOS, special bool) ([]engine.Token, error) {
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))

	buf := make([]C.llama_token, maxTokens)
	n := C.llama_tokenize(m.ptr, cText, C.int32_t(len(text)),
		&buf[0], C.int32_t(maxTokens), C.bool(addBOS), C.bool(special))
	if n < 0 {
		return nil, engine.ErrTokenizeFailed(int32(n))
	}
	out := make([]engine.Token, n)
	for i := range out {
		out[i] = engine.Token(buf[i])
	}
	return out, nil
}

func (m *llamaModel) Piece(t engine.Token) string {
	var buf [pieceBufSize]C.char
	n := C.llama_token_to_piece(m.ptr, C.llama_token(t), &buf[0], C.int32_t(len(buf)), 0, C.bool(false))
	if n <= 0 {
		return ""
	}
	return C.GoStringN(&buf[0], n)
}

func (m *llamaModel) IsEOG(t engine.Token) bool {
	return bool(C.llama_token_is_eog(m.ptr, C.llama_token(t)))
}

func (m *llamaModel) Close() {
	if m.ptr != nil {
		C.llama_free_model(m.ptr)
		m.ptr = nil
	}
}

type llamaContext struct {
	ptr   *C.struct_llama_context
	model *llamaModel
}

func (c *llamaContext) ClearCache() {
	C.llama_kv_cache_clear(c.ptr)
}

func (c *llamaContext) Decode(b engine.Batch) error {
	lb := b.(*llamaBatch)
	if ret := C.llama_decode(c.ptr, lb.batch); ret != 0 {
		return engine.ErrDecodeFailed(int32(ret))
	}
	return nil
}

func (c *llamaContext) NewBatch(capacity int) engine.Batch {
	return &llamaBatch{batch: C.llama_batch_init(C.int32_t(capacity), 0, 1)}
}

func (c *llamaContext) NewSampler(params engine.SamplerParams) engine.Sampler {
	chain := C.llama_sampler_chain_init(C.llama_sampler_chain_default_params())

	lastN := params.RepeatLastN
	if lastN == 0 {
		lastN = engine.DefaultRepeatLastN
	}
	if lastN > 0 && params.RepeatPenalty > 0 && params.RepeatPenalty != 1.0 {
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_penalties(
			C.int32_t(lastN), C.float(params.RepeatPenalty), 0, 0))
	}
	if params.TopK > 0 {
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_top_k(C.int32_t(params.TopK)))
	}
	if params.TopP > 0 && params.TopP < 1.0 {
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_top_p(C.float(params.TopP), 1))
	}
	if params.Temperature > 0 {
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_temp(C.float(params.Temperature)))
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_dist(C.uint32_t(params.Seed)))
	} else {
		C.llama_sampler_chain_add(chain, C.llama_sampler_init_greedy())
	}
	return &llamaSampler{ptr: chain, ctx: c}
}

func (c *llamaContext) StateSize() uint64 {
	return uint64(C.llama_get_state_size(c.ptr))
}

func (c *llamaContext) Close() {
	if c.ptr != nil {
		C.llama_free(c.ptr)
		c.ptr = nil
	}
}

type llamaBatch struct {
	batch C.struct_llama_batch
}

// Add writes directly into the C batch arrays. Every token joins sequence 0.
func (b *llamaBatch) Add(t engine.Token, pos int32, logits bool) {
	idx := b.batch.n_tokens

	tokens := (*[1 << 30]C.llama_token)(unsafe.Pointer(b.batch.token))
	tokens[idx] = C.llama_token(t)

	positions := (*[1 << 30]C.llama_pos)(unsafe.Pointer(b.batch.pos))
	positions[idx] = C.llama_pos(pos)

	nSeqIDs := (*[1 << 30]C.int32_t)(unsafe.Pointer(b.batch.n_seq_id))
	nSeqIDs[idx] = 1

	seqIDPtrs := (*[1 << 30]*C.llama_seq_id)(unsafe.Pointer(b.batch.seq_id))
	seqIDs := (*[1 << 30]C.llama_seq_id)(unsafe.Pointer(seqIDPtrs[idx]))
	seqIDs[0] = 0

	logitsArr := (*[1 << 30]C.int8_t)(unsafe.Pointer(b.batch.logits))
	if logits {
		logitsArr[idx] = 1
	} else {
		logitsArr[idx] = 0
	}

	b.batch.n_tokens++
}

func (b *llamaBatch) Clear() { b.batch.n_tokens = 0 }

func (b *llamaBatch) Len() int { return int(b.batch.n_tokens) }

func (b *llamaBatch) Close() { C.llama_batch_free(b.batch) }

type llamaSampler struct {
	ptr *C.struct_llama_sampler
	ctx *llamaContext
}

func (s *llamaSampler) Sample(idx int32) engine.Token {
	return engine.Token(C.llama_sampler_sample(s.ptr, s.ctx.ptr, C.int32_t(idx)))
}

func (s *llamaSampler) Close() {
	if s.ptr != nil {
		C.llama_sampler_free(s.ptr)
		s.ptr = nil
	}
}
