//go:build !llama

// This file provides a no-CGO stub compiled when the 'llama' build tag is
// NOT set, keeping default builds and CI CGO-free. The real bindings live in
// llamacpp.go (tagged 'llama').
package llamacpp

import "inferd/internal/engine"

// Built reports whether native llama.cpp support is compiled into this binary.
const Built = false

type stubEngine struct{}

// New returns a stub that satisfies engine.Engine but refuses to load models,
// so binaries built without cgo fail fast instead of mocking inference.
func New() engine.Engine { return stubEngine{} }

func (stubEngine) Init() {}

func (stubEngine) Free() {}

func (stubEngine) LoadModel(path string, params engine.ModelParams) (engine.Model, error) {
	return nil, engine.ErrBackendUnavailable("llama backend not built (missing 'llama' build tag)")
}
