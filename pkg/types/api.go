package types

// GenerateRequest represents a text generation request payload.
type GenerateRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
	// Required prompt text to generate a completion for.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// If true, stream results as NDJSON tokens. When false, the server may still stream internally but buffer.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to top K tokens.
	// example: 40
	TopK int `json:"top_k,omitempty" example:"40"`
	// Optional stop sequences. Generation stops when any sequence is matched.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Random seed for reproducibility; 0 or omitted lets the server choose.
	// example: 42
	Seed int64 `json:"seed,omitempty" example:"42"`
	// Penalty applied to recently generated tokens to reduce repetition.
	// example: 1.1
	RepeatPenalty float64 `json:"repeat_penalty,omitempty" example:"1.1"`
}

// LoadRequest asks the server to load a model, replacing any current one.
// Either Model (a registry id) or Path (an explicit file path) must be set.
type LoadRequest struct {
	// Registry id of the model to load.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
	// Explicit path to a model file, bypassing the registry.
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Path string `json:"path,omitempty" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Context window size in tokens; 0 uses the server default.
	// example: 2048
	ContextSize int `json:"context_size,omitempty" example:"2048"`
	// CPU threads for prefill and decode; 0 uses the server default.
	// example: 4
	Threads int `json:"threads,omitempty" example:"4"`
	// Number of layers to offload to the GPU; 0 keeps everything on CPU.
	// example: 0
	GPULayers int `json:"gpu_layers,omitempty" example:"0"`
	// Batch size for prompt processing; 0 uses the server default.
	// example: 512
	BatchSize int `json:"batch_size,omitempty" example:"512"`
}

// LoadResponse reports the outcome of a load operation.
type LoadResponse struct {
	// Identifier of the loaded model: the registry id, or the filename for
	// explicit paths.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
	// Absolute path of the loaded model file.
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Effective context window size in tokens.
	// example: 2048
	ContextSize int `json:"context_size" example:"2048"`
	// Wall-clock time the load took, in milliseconds.
	// example: 842
	LoadTimeMs int64 `json:"load_time_ms" example:"842"`
}

// GenerationStats summarizes one completed generation. It is embedded in the
// final NDJSON line of a streamed response and in /status.
type GenerationStats struct {
	// Number of new tokens produced.
	// example: 42
	TokensGenerated int `json:"tokens_generated" example:"42"`
	// Number of tokens in the tokenized prompt.
	// example: 9
	PromptTokens int `json:"prompt_tokens" example:"9"`
	// Wall-clock generation time in milliseconds.
	// example: 1234
	GenerationTimeMs int64 `json:"generation_time_ms" example:"1234"`
	// Milliseconds from decode start until the first token was produced.
	// example: 87
	TimeToFirstTokenMs int64 `json:"time_to_first_token_ms" example:"87"`
	// Decode throughput in tokens per second.
	// example: 34.2
	TokensPerSecond float64 `json:"tokens_per_second" example:"34.2"`
	// Why generation ended: stop, length, error or cancelled.
	// example: stop
	FinishReason string `json:"finish_reason" example:"stop"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall server state: idle, loading, ready, generating or draining.
	// example: ready
	State string `json:"state" example:"ready"`
	// The currently loaded model, if any.
	Model *Model `json:"model,omitempty"`
	// Effective context window size of the live session.
	// example: 2048
	ContextSize int `json:"context_size,omitempty" example:"2048"`
	// Effective thread count of the live session.
	// example: 4
	Threads int `json:"threads,omitempty" example:"4"`
	// Effective GPU layer count of the live session.
	// example: 0
	GPULayers int `json:"gpu_layers,omitempty" example:"0"`
	// Wall-clock time the last load took, in milliseconds.
	// example: 842
	LoadTimeMs int64 `json:"load_time_ms,omitempty" example:"842"`
	// Engine state size for the live session, in bytes.
	// example: 268435456
	MemoryBytes uint64 `json:"memory_bytes,omitempty" example:"268435456"`
	// Stats of the most recent generation, if any.
	Last *GenerationStats `json:"last,omitempty"`
	// Current queue length for incoming generation requests.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Number of in-flight generations (0 or 1).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests allowed before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Total number of model loads since start.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total number of model unloads since start.
	// example: 11
	UnloadsTotal uint64 `json:"unloads_total" example:"11"`
	// Total number of completed generations since start.
	// example: 310
	GenerationsTotal uint64 `json:"generations_total" example:"310"`
	// Total number of generations served from the response cache.
	// example: 17
	CacheHitsTotal uint64 `json:"cache_hits_total" example:"17"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
