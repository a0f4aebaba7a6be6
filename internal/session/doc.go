// Package session implements the generation orchestrator: one loaded model,
// one inference context, and the tokenize/prefill/decode/sample sequencing
// between them. It is structured into small files by concern:
//
//   - session.go: Session type, Load/Close lifecycle, stats accessors.
//   - generate.go: the generation loop (prefill, sample, decode, stream).
//   - request.go: Request/Result/Stats types and generation defaults.
//   - stop.go: literal stop-sequence matching with streaming holdback.
//   - errors.go: error types and helpers (IsNotLoaded, IsAlreadyLoaded).
//
// A Session is not safe for concurrent use: exactly one goroutine may drive
// it at a time. The manager package provides the queueing that upholds this.
package session
