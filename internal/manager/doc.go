// Package manager owns the single inference session and coordinates every
// operation against it: loading and unloading models, admission control for
// generation requests, response caching, status reporting and lifecycle
// events. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters, Close.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: lifecycle states.
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound, IsInvalidRequest).
//   - admission.go: FIFO queueing and the exclusive session slot.
//   - load.go: model resolution and (re)loading.
//   - unload.go: graceful drain and unload.
//   - generate.go: the generation entry point and NDJSON streaming.
//   - status.go: Status reporting for /status.
//   - idle.go: idle auto-unload loop.
//   - metrics.go: Prometheus collectors.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//
// Concurrency model: the session is confined to whoever holds the single
// generation slot (genCh). Generate holds it while decoding; Load and Unload
// drain the queue and then take it before touching the session. All other
// state is guarded by the manager mutex, so Status never touches the session.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (NewWithConfig, Generate, Load, Unload, Status,
// Ready, ListModels, Close). Internal types are subject to change.
package manager
