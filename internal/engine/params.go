package engine

// Zero-valued fields in the param structs mean "use the default".
const (
	DefaultContextSize = 2048
	DefaultThreads     = 4
	DefaultGPULayers   = 0
	DefaultBatchSize   = 512

	// DefaultRepeatLastN is the window of recent tokens the repeat penalty
	// considers.
	DefaultRepeatLastN = 64
)

// ModelParams configures weight loading.
type ModelParams struct {
	// GPULayers is the number of transformer layers to offload to the GPU.
	// 0 keeps the whole model on the CPU.
	GPULayers int
}

// ContextParams configures context creation.
type ContextParams struct {
	// ContextSize is the token window (n_ctx).
	ContextSize int
	// Threads is used for both prefill and decode.
	Threads int
	// BatchSize is the maximum tokens submitted per decode call (n_batch).
	BatchSize int
}

// SamplerParams configures the sampler chain. Stages apply in a fixed order:
// repeat penalty, top-k, top-p, temperature, seeded distribution.
type SamplerParams struct {
	TopK        int32
	TopP        float32
	Temperature float32
	// RepeatPenalty of 1.0 leaves logits untouched.
	RepeatPenalty float32
	// RepeatLastN is the recent-token window for the penalty stage;
	// 0 means DefaultRepeatLastN.
	RepeatLastN int32
	// Seed drives the final distribution stage.
	Seed uint32
}
