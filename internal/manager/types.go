package manager

// State represents the lifecycle state of the manager.
type State string

const (
	// StateIdle means no model is loaded.
	StateIdle State = "idle"
	// StateLoading means a model load is in progress.
	StateLoading State = "loading"
	// StateReady means a model is loaded and accepting requests.
	StateReady State = "ready"
	// StateGenerating is reported while a generation holds the session slot.
	// It is derived in Status and never stored.
	StateGenerating State = "generating"
	// StateDraining means the queue is being flushed ahead of an unload or
	// replace; new requests are rejected.
	StateDraining State = "draining"
)
