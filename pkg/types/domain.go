package types

// Model represents a discoverable or loadable LLM model on disk.
type Model struct {
	// Stable identifier for the model.
	// example: tinyllama-q4
	ID string `json:"id" example:"tinyllama-q4"`
	// Human-friendly name.
	// example: TinyLlama (Q4)
	Name string `json:"name" example:"TinyLlama (Q4)"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Quantization level or variant string.
	// example: Q4_K_M
	Quant string `json:"quant" example:"Q4_K_M"`
	// Optional family (e.g., llama, mistral, phi).
	// example: llama
	Family string `json:"family,omitempty" example:"llama"`
	// File size in megabytes.
	// example: 668
	SizeMB int64 `json:"size_mb" example:"668"`
	// xxhash64 of the file header, hex-encoded. Identifies the weights even
	// when the file is renamed or replaced in place.
	// example: 9c3f1a0b2d4e5f60
	Fingerprint string `json:"fingerprint,omitempty" example:"9c3f1a0b2d4e5f60"`
}
