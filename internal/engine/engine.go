// Package engine defines the capability surface of a llama.cpp style
// inference backend. The interfaces mirror the native C API one call per
// method, so the orchestration layer above owns the sequencing (tokenize,
// prefill, decode, sample) and backends stay thin.
//
// Implementations:
//   - engine/llamacpp: cgo bindings against llama.h (build tag 'llama'),
//     with a refusing stub otherwise.
//   - engine/enginetest: deterministic scripted engine for tests.
package engine

// Token is a vocabulary token id as produced by the backend tokenizer.
type Token int32

// Engine is the entry point of a backend: global lifecycle plus model loading.
type Engine interface {
	// Init initializes backend-global state. Safe to call more than once.
	Init()
	// Free releases backend-global state. Call after all models are closed.
	Free()
	// LoadModel loads model weights from path. The returned Model must be
	// closed by the caller exactly once.
	LoadModel(path string, params ModelParams) (Model, error)
}

// Model is a loaded set of weights plus its vocabulary.
type Model interface {
	// NewContext creates an inference context bound to this model. The
	// returned Context must be closed before the Model.
	NewContext(params ContextParams) (Context, error)
	// Tokenize converts text to tokens. maxTokens bounds the output; a
	// prompt that does not fit yields an error, never a truncated slice.
	// addBOS prepends the beginning-of-sequence token; special controls
	// whether control tokens in the text are parsed.
	Tokenize(text string, maxTokens int, addBOS, special bool) ([]Token, error)
	// Piece renders a single token as text.
	Piece(t Token) string
	// IsEOG reports whether t is an end-of-generation token.
	IsEOG(t Token) bool
	// Close frees the model weights.
	Close()
}

// Context holds the mutable inference state (KV cache) for one model.
// A Context is not safe for concurrent use.
type Context interface {
	// ClearCache resets the KV cache so the context can serve a fresh prompt.
	ClearCache()
	// Decode runs the model over the tokens in b. Logits become available
	// at the positions that requested them.
	Decode(b Batch) error
	// NewBatch allocates a token batch with room for capacity tokens.
	// The returned Batch must be closed by the caller.
	NewBatch(capacity int) Batch
	// NewSampler builds a sampler chain over this context's logits.
	// The returned Sampler must be closed by the caller.
	NewSampler(params SamplerParams) Sampler
	// StateSize returns the byte size of the serialized context state,
	// used as a memory footprint estimate.
	StateSize() uint64
	// Close frees the context and its KV cache.
	Close()
}

// Batch accumulates tokens for one Decode call. All tokens join sequence 0.
type Batch interface {
	// Add appends token t at position pos. logits requests output logits
	// at this position.
	Add(t Token, pos int32, logits bool)
	// Clear empties the batch for reuse.
	Clear()
	// Len reports the number of tokens currently in the batch.
	Len() int
	// Close frees the batch buffers.
	Close()
}

// Sampler selects the next token from the logits of a decoded position.
type Sampler interface {
	// Sample picks a token using the logits at batch output index idx and
	// feeds the choice back into the chain (repeat penalty state).
	Sample(idx int32) Token
	// Close frees the sampler chain.
	Close()
}
